package models

// User is the shop client. WhatsApp is the session identity key; the remote
// table stores it in the "phone" column.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
	Birthday string `json:"birthday,omitempty"`
	Points   int    `json:"points"`
}

func (u User) IsLocal() bool {
	return IsLocalID(u.ID)
}

type RankingItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cuts   int    `json:"cuts"`
	Avatar string `json:"avatar"`
}
