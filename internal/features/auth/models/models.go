package models

import "strconv"

// TelegramLoginData is the payload Telegram's login widget posts back.
// It is consumed once for verification and provisioning, never stored.
type TelegramLoginData struct {
	ID        int64  `json:"id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" binding:"required"`
	Hash      string `json:"hash" binding:"required"`
}

// CheckFields returns the signed fields as name/value pairs, excluding
// the signature itself. Telegram omits absent optional fields from the
// data-check string, so empty optional values are skipped.
func (d TelegramLoginData) CheckFields() map[string]string {
	fields := map[string]string{
		"id":        strconv.FormatInt(d.ID, 10),
		"auth_date": strconv.FormatInt(d.AuthDate, 10),
	}
	if d.Username != "" {
		fields["username"] = d.Username
	}
	if d.FirstName != "" {
		fields["first_name"] = d.FirstName
	}
	if d.LastName != "" {
		fields["last_name"] = d.LastName
	}
	if d.PhotoURL != "" {
		fields["photo_url"] = d.PhotoURL
	}
	return fields
}

// Session is the request-scoped identity derived from a verified token.
type Session struct {
	UserID     string `json:"userId"`
	TelegramID int64  `json:"telegramId"`
}
