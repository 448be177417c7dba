package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/opencampus/timetable-api/internal/models"
)

// RegisterValidators installs custom binding validators used by the request
// payloads.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.IsWeekday(fl.Field().String())
	})
}
