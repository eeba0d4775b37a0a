package model

type GetTokensRequest struct {
	Owner string `json:"owner"`
}

type Token struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Owner        string `json:"owner"`
	OwnerDisplay string `json:"ownerDisplay"`
	URI          string `json:"uri"`
}

type GetTokensResponse struct {
	Tokens []Token `json:"tokens"`
}
