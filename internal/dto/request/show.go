package request

type ListShowsRequest struct {
	VenueID string `json:"venue_id" validate:"required,uuid4"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}
