package validation

import (
	"regexp"

	"github.com/recipehub/recipe-service/internal/apperrors"
)

var (
	usernameStartRe = regexp.MustCompile(`^[a-zA-Z]`)
	usernameCharsRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	upperRe         = regexp.MustCompile(`[A-Z]`)
	lowerRe         = regexp.MustCompile(`[a-z]`)
	digitRe         = regexp.MustCompile(`\d`)
)

// UserRegistrationInput is a validated registration payload.
type UserRegistrationInput struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// UserLoginInput is a validated login payload. Exactly one of Email or
// Username identifies the account.
type UserLoginInput struct {
	Email    string
	Username string
	Password string
}

// UserUpdateInput is a validated partial profile update; nil means "leave
// the field untouched".
type UserUpdateInput struct {
	FullName     *string
	Bio          *string
	ProfileImage *string
}

// UserRegistration validates a registration body.
func UserRegistration(body []byte) (*UserRegistrationInput, *apperrors.Error) {
	var raw struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		FullName *string `json:"full_name"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}

	username, ok := requireString(errs, "username", raw.Username)
	if ok && checkLen(errs, "username", username, 3, 80) {
		if !usernameStartRe.MatchString(username) {
			errs.add("username", "username must start with a letter")
		} else if !usernameCharsRe.MatchString(username) {
			errs.add("username", "username can only contain letters, numbers, underscores, and hyphens")
		}
	}

	email, ok := requireString(errs, "email", raw.Email)
	if ok {
		checkEmail(errs, "email", email)
	}

	password, ok := requireString(errs, "password", raw.Password)
	if ok {
		checkPasswordStrength(errs, password)
	}

	checkOptionalLen(errs, "full_name", raw.FullName, 100)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &UserRegistrationInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: raw.FullName,
	}, nil
}

// UserLogin validates a login body. The account may be identified by email
// or by username.
func UserLogin(body []byte) (*UserLoginInput, *apperrors.Error) {
	var raw struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	input := &UserLoginInput{}
	switch {
	case raw.Email != nil:
		email, ok := requireString(errs, "email", raw.Email)
		if ok && checkEmail(errs, "email", email) {
			input.Email = email
		}
	case raw.Username != nil:
		input.Username, _ = requireString(errs, "username", raw.Username)
	default:
		errs.add("email", "email or username is required")
	}
	input.Password, _ = requireString(errs, "password", raw.Password)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return input, nil
}

// UserUpdate validates a partial profile update body.
func UserUpdate(body []byte) (*UserUpdateInput, *apperrors.Error) {
	var raw struct {
		FullName     *string `json:"full_name"`
		Bio          *string `json:"bio"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	checkOptionalLen(errs, "full_name", raw.FullName, 100)
	checkOptionalLen(errs, "profile_image", raw.ProfileImage, 255)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &UserUpdateInput{
		FullName:     raw.FullName,
		Bio:          raw.Bio,
		ProfileImage: raw.ProfileImage,
	}, nil
}

func checkPasswordStrength(errs fieldErrors, password string) {
	if len(password) < 8 {
		errs.add("password", "password must be at least 8 characters long")
		return
	}
	if !upperRe.MatchString(password) {
		errs.add("password", "password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		errs.add("password", "password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		errs.add("password", "password must contain at least one number")
	}
}
