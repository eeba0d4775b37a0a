package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/questx-lab/nftmint/pkg/enum"
)

type ImageHost string

var (
	ImageHostCloudinary = enum.New(ImageHost("cloudinary"), "cloudinary")
	ImageHostPinata     = enum.New(ImageHost("pinata"), "pinata")
	ImageHostS3         = enum.New(ImageHost("s3"), "s3")
)

type MetadataStore string

var (
	MetadataStoreInline = enum.New(MetadataStore("inline"), "inline")
	MetadataStorePinata = enum.New(MetadataStore("pinata"), "pinata")
)

type DatabaseDriver string

var (
	DatabaseDriverMySQL  = enum.New(DatabaseDriver("mysql"), "mysql")
	DatabaseDriverSQLite = enum.New(DatabaseDriver("sqlite"), "sqlite")
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Chain     ChainConfigs    `toml:"chain"`
	Signer    SignerConfigs   `toml:"signer"`
	Minter    MinterConfigs   `toml:"minter"`
	Image     ImageConfigs    `toml:"image"`
	Metadata  MetadataConfigs `toml:"metadata"`
}

type DatabaseConfigs struct {
	// Driver is either mysql or sqlite.
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == string(DatabaseDriverSQLite) {
		return d.Database
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	AllowedOrigins []string `toml:"allowed_origins"`

	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type ChainConfigs struct {
	Chain string `toml:"chain"`
	RPC   string `toml:"rpc"`

	// ChainID overrides the id derived from Chain when non-zero.
	ChainID int64 `toml:"chain_id"`

	// For gas calculation.
	UseEip1559 bool `toml:"use_eip_1559"`

	CollectionAddress  string `toml:"collection_address"`
	ReceiptPollSeconds int    `toml:"receipt_poll_seconds"`
}

type SignerConfigs struct {
	// PrivateKey is the hex key of the collection's minter role. It is usually supplied through
	// WALLET_PRIVATE_KEY instead of the config file.
	PrivateKey string `toml:"private_key"`
}

type MinterConfigs struct {
	// PrivateKey of the wallet which submits the mint transaction.
	PrivateKey   string `toml:"private_key"`
	SignatureURL string `toml:"signature_url"`
}

type ImageConfigs struct {
	// Host is cloudinary, pinata or s3.
	Host         string `toml:"host"`
	MaxSize      int64  `toml:"max_size"`
	MaxDimension uint   `toml:"max_dimension"`

	Cloudinary CloudinaryConfigs `toml:"cloudinary"`
	Pinata     PinataConfigs     `toml:"pinata"`
	S3         S3Configs         `toml:"s3"`
}

type CloudinaryConfigs struct {
	Endpoint     string `toml:"endpoint"`
	CloudName    string `toml:"cloud_name"`
	UploadPreset string `toml:"upload_preset"`
}

type PinataConfigs struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Gateway  string `toml:"gateway"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Bucket         string `toml:"bucket"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

type MetadataConfigs struct {
	// Store is inline or pinata.
	Store       string `toml:"store"`
	IPFSGateway string `toml:"ipfs_gateway"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Driver:   "sqlite",
			Database: "nftmint.db",
		},
		ApiServer: ServerConfigs{
			Host:                "",
			Port:                "8080",
			AllowedOrigins:      []string{"*"},
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Chain: ChainConfigs{
			Chain:              "polygon-testnet",
			RPC:                "https://rpc-mumbai.maticvigil.com",
			ReceiptPollSeconds: 2,
		},
		Minter: MinterConfigs{
			SignatureURL: "http://localhost:8080/api/generate",
		},
		Image: ImageConfigs{
			Host:         "cloudinary",
			MaxSize:      10 * 1024 * 1024,
			MaxDimension: 2048,
			Cloudinary: CloudinaryConfigs{
				Endpoint:     "https://api.cloudinary.com",
				CloudName:    "drec1cilb",
				UploadPreset: "nft-uploads",
			},
			Pinata: PinataConfigs{
				Endpoint: "https://api.pinata.cloud",
				Gateway:  "https://gateway.pinata.cloud/ipfs/",
			},
		},
		Metadata: MetadataConfigs{
			Store:       "inline",
			IPFSGateway: "https://ipfs.io/ipfs/",
		},
	}
}

// Load reads the toml file at path (if any) over the defaults, then applies environment
// overrides. The result is read-only for the lifetime of the process.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings. Credentials are not checked here, a missing signing
// key only fails the requests which need it.
func (c *Configs) Validate() error {
	if _, err := enum.ToEnum[DatabaseDriver](c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}

	if _, err := enum.ToEnum[ImageHost](c.Image.Host); err != nil {
		return fmt.Errorf("image.host: %w", err)
	}

	if _, err := enum.ToEnum[MetadataStore](c.Metadata.Store); err != nil {
		return fmt.Errorf("metadata.store: %w", err)
	}

	return nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Signer.PrivateKey, "WALLET_PRIVATE_KEY")
	setString(&cfg.Minter.PrivateKey, "MINTER_PRIVATE_KEY")
	setString(&cfg.Minter.SignatureURL, "SIGNATURE_URL")
	setString(&cfg.Chain.CollectionAddress, "NFT_COLLECTION_ADDRESS")
	setString(&cfg.Chain.RPC, "CHAIN_RPC")
	setString(&cfg.ApiServer.Port, "PORT")
	setString(&cfg.Image.Pinata.Token, "PINATA_TOKEN")
	setString(&cfg.Image.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Image.S3.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Database.Password, "DB_PASSWORD")

	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CHAIN_ID %q: %w", v, err)
		}
		cfg.Chain.ChainID = id
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
