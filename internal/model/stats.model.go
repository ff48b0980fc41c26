package model

type Stats struct {
	TotalContacts   int64                 `json:"total_contacts"`
	TotalMessages   int64                 `json:"total_messages"`
	TotalExpenses   int64                 `json:"total_expenses"`
	PendingExpenses int64                 `json:"pending_expenses"`
	MessagesByKind  map[MessageKind]int64 `json:"messages_by_kind"`
	StorageRoot     string                `json:"storage_root"`
}
