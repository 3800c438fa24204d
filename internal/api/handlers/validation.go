// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validatorsOnce sync.Once

// registerValidators adds the post enums and notblank to gin's validator engine.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("Warning: gin validator engine is not go-playground/validator, custom rules disabled")
			return
		}

		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			log.Fatalf("failed to register notblank validator: %v", err)
		}
		if err := v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			_, err := posts.ParsePlatform(fl.Field().String())
			return err == nil
		}); err != nil {
			log.Fatalf("failed to register platform validator: %v", err)
		}
		if err := v.RegisterValidation("poststatus", func(fl validator.FieldLevel) bool {
			_, err := posts.ParseStatus(fl.Field().String())
			return err == nil
		}); err != nil {
			log.Fatalf("failed to register poststatus validator: %v", err)
		}
	})
}

// validationMessage turns binding errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required for scheduled posts", field))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must have between 1 and %d entries", field, posts.MaxImages))
		case "platform":
			msgs = append(msgs, fmt.Sprintf("%s must be one of instagram, facebook, tiktok, linkedin", field))
		case "poststatus":
			msgs = append(msgs, fmt.Sprintf("%s must be one of published, scheduled, draft", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
