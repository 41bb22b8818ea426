package models

type SelectPlanRequest struct {
	Plan Plan `json:"plan" binding:"required" example:"premium"`
}

type CoupleInfoRequest struct {
	CoupleName string `json:"couple_name" example:"Ana & Bia"`
	// StartDate is the day the relationship began, formatted YYYY-MM-DD.
	StartDate string `json:"start_date" example:"2020-02-14"`
}

type MessageRequest struct {
	Message string `json:"message" example:"Feliz aniversário de namoro!"`
	// YoutubeLink is only kept on the premium plan.
	YoutubeLink string `json:"youtube_link,omitempty" example:"https://youtu.be/dQw4w9WgXcQ"`
}

type GoToRequest struct {
	Step string `json:"step" binding:"required" example:"photos"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// ReturnURL is where the user was headed when the login page opened.
	ReturnURL string `json:"return_url,omitempty" example:"/payment"`
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	ReturnURL string `json:"return_url,omitempty" example:"/payment"`
}

type PaymentRequest struct {
	SurpriseID      string `json:"surprise_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required" example:"pm_card_visa"`
}
