package payments

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the payment status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether the provider is done with the payment
func (s Status) IsFinal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}
