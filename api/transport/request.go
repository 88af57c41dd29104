package transport

// TaskRequest carries the client-settable task fields. Pointer fields
// distinguish "absent" from "empty" so PATCH can be partial. Owner, id and
// timestamps are never accepted from the wire.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
