package http

import (
	"database/sql/driver"
	"encoding/json"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Usernames appear in URL paths, so they are restricted to characters
// that need no escaping.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Passwords are capped at bcrypt's input limit.
const (
	minPasswordLength = 5
	maxPasswordLength = 72
)

// nullableString is a patch field that tells an absent key from an explicit
// null. Set is true whenever the key was present in the body.
type nullableString struct {
	Set  bool
	Text *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Text = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Text = &s
	return nil
}

// Value lets validation rules see the underlying string.
func (n nullableString) Value() (driver.Value, error) {
	if n.Text == nil {
		return nil, nil
	}
	return *n.Text, nil
}

// cleared reports whether the body asked for the field to become null.
func (n nullableString) cleared() bool {
	return n.Set && n.Text == nil
}

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(1, 64),
			validation.Match(usernamePattern).Error("may only contain letters, digits, '.', '_' and '-'"),
		),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.EmailFormat),
		validation.Field(&r.Bio, validation.Length(0, 1000)),
	)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

// updateUserRequest carries the fields to change; absent fields are nil.
// A null bio clears it.
type updateUserRequest struct {
	Password *string        `json:"password"`
	Email    *string        `json:"email"`
	Bio      nullableString `json:"bio"`
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(minPasswordLength, maxPasswordLength)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(3, 255), is.EmailFormat),
		validation.Field(&r.Bio, validation.Length(0, 1000)),
	)
}

type listRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (r listRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

type newReviewRequest struct {
	Rating *int    `json:"rating"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

func (r newReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Body, validation.Length(0, 5000)),
	)
}

// reviewPatchRequest leaves absent fields untouched. A null title or body
// clears it.
type reviewPatchRequest struct {
	Rating *int           `json:"rating"`
	Title  nullableString `json:"title"`
	Body   nullableString `json:"body"`
}

func (r reviewPatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.NilOrNotEmpty, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Body, validation.Length(0, 5000)),
	)
}

type newBookRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Cover       string   `json:"cover"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
}

func (r newBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 512)),
		validation.Field(&r.Authors, validation.Each(validation.Required, validation.Length(1, 255))),
		validation.Field(&r.Cover, validation.Length(0, 2048), is.URL),
		validation.Field(&r.Link, validation.Length(0, 2048), is.URL),
	)
}

type searchRequest struct {
	Q        string `form:"q" json:"q"`
	InTitle  string `form:"intitle" json:"intitle"`
	InAuthor string `form:"inauthor" json:"inauthor"`
	ISBN     string `form:"isbn" json:"isbn"`
	Offset   int    `form:"offset" json:"offset"`
}

func (r searchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Q, validation.Length(0, 256)),
		validation.Field(&r.InTitle, validation.Length(0, 256)),
		validation.Field(&r.InAuthor, validation.Length(0, 256)),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.Offset, validation.Min(0)),
	)
}
