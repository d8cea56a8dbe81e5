package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	statusTag  = "attstatus"
	statusText = "status must be one of present, absent, late, excused"

	dateText = "must be a valid date (2006-01-02)"
)

// InitValidators registers this domain's custom validators. core.InitValidators must be called first.
func InitValidators() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).IsValid()
}
