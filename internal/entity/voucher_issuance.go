package entity

// VoucherIssuance records one voucher signed by the service. Rows are only ever appended.
type VoucherIssuance struct {
	SnowFlakeBase

	UID              string `gorm:"uniqueIndex;size:66"`
	ToAddress        string `gorm:"index;size:42"`
	RoyaltyRecipient string `gorm:"size:42"`
	RoyaltyBps       int64
	Name             string
	Image            string `gorm:"type:text"`
	URI              string `gorm:"type:text"`
	Chain            string
	Collection       string `gorm:"size:42"`
}
