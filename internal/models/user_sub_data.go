package models

type UserSubData struct {
	Email     string    `json:"email"     form:"email"     binding:"required,email"`
	City      string    `json:"city"      form:"city"      binding:"required"`
	Frequency Frequency `json:"frequency" form:"frequency" binding:"required,oneof=hourly daily"`
}
