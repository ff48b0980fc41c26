package model

import "time"

type Contact struct {
	ID            int64      `json:"id"`
	Phone         string     `json:"phone"`
	Name          string     `json:"name"`
	FolderPath    string     `json:"folder_path"`
	CreatedAt     time.Time  `json:"created_at"`
	LastContactAt *time.Time `json:"last_contact_at"`
}

// ContactSummary is a contact with its activity counters.
type ContactSummary struct {
	Contact
	TotalMessages int64 `json:"total_messages"`
	TotalExpenses int64 `json:"total_expenses"`
}

// NormalizePhone keeps only the digits of raw, so "+55 (11) 99988-7766" and
// "5511999887766@c.us" resolve to the same contact.
func NormalizePhone(raw string) string {
	b := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b = append(b, raw[i])
		}
	}
	return string(b)
}
