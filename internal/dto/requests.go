package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateReservationRequest keeps the dates as raw strings so the handler can
// tell an offset-less timestamp from an aware one.
type CreateReservationRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type DateRangeQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type PaginationQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
	Page  *int `form:"page" binding:"omitempty,min=0"`
}

const (
	DefaultLimit = 10
	DefaultPage  = 0
)

func (q PaginationQuery) Values() (limit, page int) {
	limit, page = DefaultLimit, DefaultPage
	if q.Limit != nil {
		limit = *q.Limit
	}
	if q.Page != nil {
		page = *q.Page
	}
	return limit, page
}
