package model

import "github.com/questx-lab/nftmint/pkg/blockchain/eth"

// GenerateSignatureRequest is the body of POST /api/generate.
type GenerateSignatureRequest struct {
	AuthorAddress  string `json:"authorAddress"`
	NftName        string `json:"nftName"`
	NftImage       string `json:"nftImage"`
	NftDescription string `json:"nftDescription"`
}

type GenerateSignatureResponse struct {
	SignedPayload *eth.SignedPayload `json:"signedPayload"`
}
