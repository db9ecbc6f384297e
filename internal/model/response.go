package model

// DataResponse wraps a single entity or a list.
type DataResponse[T any] struct {
	Data   T      `json:"data"`
	Detail string `json:"detail"`
}

// ChangeResponse carries the state before and after an update.
type ChangeResponse[T any] struct {
	OldData T      `json:"old_data"`
	NewData T      `json:"new_data"`
	Detail  string `json:"detail"`
}
