package orders

type Status string

// Engine ini hanya pernah menghasilkan COMPLETED; PENDING/CANCELLED ada di
// status set untuk data lama & alur pembatalan di luar scope.
const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)
