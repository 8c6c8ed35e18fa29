package service

// Status mirrors the HTTP status an outcome is rendered with.
type Status int

const (
	StatusOK            Status = 200
	StatusCreated       Status = 201
	StatusNoContent     Status = 204
	StatusBadRequest    Status = 400
	StatusNotFound      Status = 404
	StatusUnprocessable Status = 422
	StatusInternal      Status = 500
)

// Empty is the payload of outcomes that carry no data.
type Empty struct{}

// Result is the successful outcome of an operation. Failures travel as
// *BusinessError.
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
}

func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Status: StatusOK, Data: data, Message: message}
}

func Created[T any](data T, message string) Result[T] {
	return Result[T]{Status: StatusCreated, Data: data, Message: message}
}

func NoContent() Result[Empty] {
	return Result[Empty]{Status: StatusNoContent}
}

type PagedResult[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"totalCount"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

func NewPagedResult[T any](items []T, totalCount, page, pageSize int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return PagedResult[T]{
		Items:           items,
		TotalCount:      totalCount,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
