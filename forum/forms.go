// forum/forms.go
package forum

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formValidator is shared by all form types. Field names in error maps come
// from the `form` tag so they line up with the HTML input names.
var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegistrationForm carries a new-account submission.
type RegistrationForm struct {
	Username        string `form:"username" validate:"required,min=3,max=150"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

func (f *RegistrationForm) Bind(r *http.Request) {
	f.Username = strings.TrimSpace(r.PostFormValue("username"))
	f.Password = r.PostFormValue("password")
	f.ConfirmPassword = r.PostFormValue("confirm_password")
}

func (f *RegistrationForm) Validate() map[string]string {
	return checkForm(f)
}

// LoginForm carries a login submission.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) Bind(r *http.Request) {
	f.Username = strings.TrimSpace(r.PostFormValue("username"))
	f.Password = r.PostFormValue("password")
}

func (f *LoginForm) Validate() map[string]string {
	return checkForm(f)
}

// TopicForm carries both topic creation and topic edit submissions.
type TopicForm struct {
	Title   string `form:"title" validate:"required,min=3,max=200"`
	Content string `form:"content" validate:"required"`
}

func (f *TopicForm) Bind(r *http.Request) {
	f.Title = strings.TrimSpace(r.PostFormValue("title"))
	f.Content = r.PostFormValue("content")
}

func (f *TopicForm) Validate() map[string]string {
	return checkForm(f)
}

// ReplyForm carries a reply submission.
type ReplyForm struct {
	Content string `form:"content" validate:"required"`
}

func (f *ReplyForm) Bind(r *http.Request) {
	f.Content = r.PostFormValue("content")
}

func (f *ReplyForm) Validate() map[string]string {
	return checkForm(f)
}

// checkForm runs the validator and flattens the result into a per-field
// message map. A nil map means the whole submission is valid; validation is
// all-or-nothing per submission.
func checkForm(form any) map[string]string {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	fieldErrs := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["form"] = "Invalid submission."
		return fieldErrs
	}
	for _, fe := range verrs {
		// first error per field wins
		if _, seen := fieldErrs[fe.Field()]; !seen {
			fieldErrs[fe.Field()] = fieldMessage(fe)
		}
	}
	return fieldErrs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	}
	return "Invalid value."
}
