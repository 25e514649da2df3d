package request

type CreateReservationRequest struct {
	TimingID int64 `json:"timing_id" validate:"required,gt=0"`
	Seats    int   `json:"seats" validate:"required,gt=0"`
}
