package model

import "time"

type GetIssuancesRequest struct {
	Address string `json:"address"`
}

type VoucherIssuance struct {
	ID               string    `json:"id"`
	UID              string    `json:"uid"`
	To               string    `json:"to"`
	RoyaltyRecipient string    `json:"royaltyRecipient"`
	RoyaltyBps       int64     `json:"royaltyBps"`
	Name             string    `json:"name"`
	Image            string    `json:"image"`
	URI              string    `json:"uri"`
	CreatedAt        time.Time `json:"createdAt"`
}

type GetIssuancesResponse struct {
	// Total counts every voucher issued by the service, for any address.
	Total     int64             `json:"total"`
	Issuances []VoucherIssuance `json:"issuances"`
}
