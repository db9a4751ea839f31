package forum

import (
	"strings"
	"testing"
)

func TestRegistrationFormValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      RegistrationForm
		wantField string // "" means valid
	}{
		{
			name: "valid",
			form: RegistrationForm{Username: "alice", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name:      "missing username",
			form:      RegistrationForm{Password: "secret1", ConfirmPassword: "secret1"},
			wantField: "username",
		},
		{
			name:      "username too short",
			form:      RegistrationForm{Username: "al", Password: "secret1", ConfirmPassword: "secret1"},
			wantField: "username",
		},
		{
			name:      "username too long",
			form:      RegistrationForm{Username: strings.Repeat("a", 151), Password: "secret1", ConfirmPassword: "secret1"},
			wantField: "username",
		},
		{
			name:      "password too short",
			form:      RegistrationForm{Username: "alice", Password: "short", ConfirmPassword: "short"},
			wantField: "password",
		},
		{
			name:      "password mismatch",
			form:      RegistrationForm{Username: "alice", Password: "secret1", ConfirmPassword: "secret2"},
			wantField: "confirm_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("expected valid, got errors %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestLoginFormValidate(t *testing.T) {
	valid := LoginForm{Username: "alice", Password: "whatever"}
	if errs := valid.Validate(); errs != nil {
		t.Fatalf("expected valid, got %v", errs)
	}

	empty := LoginForm{}
	errs := empty.Validate()
	if _, ok := errs["username"]; !ok {
		t.Errorf("expected username error, got %v", errs)
	}
	if _, ok := errs["password"]; !ok {
		t.Errorf("expected password error, got %v", errs)
	}
}

func TestTopicFormValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      TopicForm
		wantField string
	}{
		{name: "valid", form: TopicForm{Title: "Hello", Content: "World"}},
		{name: "missing title", form: TopicForm{Content: "World"}, wantField: "title"},
		{name: "title too short", form: TopicForm{Title: "Hi", Content: "World"}, wantField: "title"},
		{name: "title too long", form: TopicForm{Title: strings.Repeat("x", 201), Content: "World"}, wantField: "title"},
		{name: "missing content", form: TopicForm{Title: "Hello"}, wantField: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("expected valid, got errors %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestReplyFormValidate(t *testing.T) {
	if errs := (&ReplyForm{Content: "me too"}).Validate(); errs != nil {
		t.Fatalf("expected valid, got %v", errs)
	}
	errs := (&ReplyForm{}).Validate()
	if _, ok := errs["content"]; !ok {
		t.Fatalf("expected content error, got %v", errs)
	}
}

// A submission with several broken fields reports them all; a fully valid
// one reports none. There is no partial acceptance.
func TestValidationIsAllOrNothing(t *testing.T) {
	form := RegistrationForm{Username: "al", Password: "short", ConfirmPassword: "different"}
	errs := form.Validate()
	for _, field := range []string{"username", "password", "confirm_password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error on %q, got %v", field, errs)
		}
	}
}
