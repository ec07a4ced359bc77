// Package validation checks SDK request structs with go-playground
// validator struct tags.
//
//	type StartLoginRequest struct {
//	    RealmScopedUserID string `json:"realmScopedUserId" validate:"required"`
//	    Redirect          string `json:"redirect,omitempty" validate:"omitempty,url"`
//	}
//	if err := validation.Validate(req); err != nil {
//	    var verr *validation.Error
//	    errors.As(err, &verr) // verr.Fields lists each failing field
//	}
//
// Field names in errors use the json tag, so they match the wire format.
package validation
