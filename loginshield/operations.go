package loginshield

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cryptium/loginshield-go/logger"
	"github.com/cryptium/loginshield-go/observability"
	"github.com/cryptium/loginshield-go/validation"
)

// Operation names used in logs and span names.
const (
	opCreateRealmUser             = "createRealmUser"
	opCreateRealmUserWithRedirect = "createRealmUserWithRedirect"
	opStartLogin                  = "startLogin"
	opVerifyLogin                 = "verifyLogin"
	opGetRealmInfoByID            = "getRealmInfoById"
	opGetRealmInfoByURI           = "getRealmInfoByURI"
)

func (e *executor) createRealmUser(ctx context.Context, req CreateRealmUserRequest) (*CreateRealmUserResponse, *ErrorResult) {
	ctx, log, span := e.begin(ctx, opCreateRealmUser)
	defer span.End()
	if err := validation.Validate(req); err != nil {
		return nil, failed(ctx, log, KindRegistrationFailed, err)
	}

	x, err := e.do(ctx, log, call{
		op:     opCreateRealmUser,
		method: http.MethodPost,
		path:   PathRealmUserCreate,
		body: createRealmUserBody{
			RealmID:           e.realmID,
			RealmScopedUserID: req.RealmScopedUserID,
			Name:              req.Name,
			Email:             req.Email,
			Replace:           req.Replace,
		},
	})
	if err != nil {
		return nil, callFailed(ctx, KindRegistrationFailed, x, err)
	}

	var out CreateRealmUserResponse
	if !decodeBody(x.resp.Data, &out) || !out.IsCreated {
		return nil, unexpected(ctx, log, x.resp)
	}
	out.Raw = x.resp.Data
	return &out, nil
}

func (e *executor) createRealmUserWithRedirect(ctx context.Context, req CreateRealmUserWithRedirectRequest) (*CreateRealmUserResponse, *ErrorResult) {
	ctx, log, span := e.begin(ctx, opCreateRealmUserWithRedirect)
	defer span.End()
	if err := validation.Validate(req); err != nil {
		return nil, failed(ctx, log, KindRegistrationFailed, err)
	}

	x, err := e.do(ctx, log, call{
		op:     opCreateRealmUserWithRedirect,
		method: http.MethodPost,
		path:   PathRealmUserCreate,
		body: createRealmUserBody{
			RealmID:           e.realmID,
			RealmScopedUserID: req.RealmScopedUserID,
			Redirect:          req.Redirect,
		},
	})
	if err != nil {
		return nil, callFailed(ctx, KindRegistrationFailed, x, err)
	}

	var out CreateRealmUserResponse
	if !decodeBody(x.resp.Data, &out) || !out.IsCreated || !e.isServiceURL(out.Forward) {
		return nil, unexpected(ctx, log, x.resp)
	}
	out.Raw = x.resp.Data
	return &out, nil
}

func (e *executor) startLogin(ctx context.Context, req StartLoginRequest) (*StartLoginResponse, *ErrorResult) {
	ctx, log, span := e.begin(ctx, opStartLogin)
	defer span.End()
	if err := validation.Validate(req); err != nil {
		return nil, failed(ctx, log, KindLoginFailed, err)
	}

	x, err := e.do(ctx, log, call{
		op:     opStartLogin,
		method: http.MethodPost,
		path:   PathLoginStart,
		body: startLoginBody{
			RealmID:  e.realmID,
			UserID:   req.RealmScopedUserID,
			IsNewKey: req.IsNewKey,
			Redirect: req.Redirect,
		},
	})
	if err != nil {
		return nil, callFailed(ctx, KindLoginFailed, x, err)
	}

	var out StartLoginResponse
	if !decodeBody(x.resp.Data, &out) || !e.isServiceURL(out.Forward) {
		return nil, unexpected(ctx, log, x.resp)
	}
	out.Raw = x.resp.Data
	return &out, nil
}

// verifyLogin never reports a cause: failures are logged and returned as a
// bare KindLoginFailed result.
func (e *executor) verifyLogin(ctx context.Context, token string) (*VerifyLoginResponse, *ErrorResult) {
	ctx, log, span := e.begin(ctx, opVerifyLogin)
	defer span.End()
	if err := validation.Var("token", token, "required"); err != nil {
		observability.SetSpanError(ctx, err)
		log.Warn("verify login failed", logger.ErrorFields(err))
		return nil, &ErrorResult{Error: KindLoginFailed}
	}

	x, err := e.do(ctx, log, call{
		op:     opVerifyLogin,
		method: http.MethodPost,
		path:   PathLoginVerify,
		body:   verifyLoginBody{Token: token},
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		fields := x.diagnostics()
		fields[logger.FieldError] = err.Error()
		log.Warn("verify login failed", fields)
		return nil, &ErrorResult{Error: KindLoginFailed}
	}

	if isFalsyBody(x.resp.Data) {
		return nil, unexpected(ctx, log, x.resp)
	}
	var out VerifyLoginResponse
	// Shape varies by outcome; decode what matches.
	_ = json.Unmarshal(x.resp.Data, &out)
	out.Raw = x.resp.Data
	return &out, nil
}

func (e *executor) realmInfo(ctx context.Context, op, key, value string) (RealmInfo, error) {
	ctx, log, span := e.begin(ctx, op)
	defer span.End()
	if err := validation.Var(key, value, "required"); err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	x, err := e.do(ctx, log, call{
		op:     op,
		method: http.MethodGet,
		path:   PathRealm,
		query:  map[string]string{key: value},
	})
	if err != nil {
		err = failureCause(x.resp, err)
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	var info RealmInfo
	if err := json.Unmarshal(x.resp.Data, &info); err != nil {
		err = fmt.Errorf("loginshield: decode realm info: %w", err)
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	if info == nil {
		err := errors.New("loginshield: empty realm info response")
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return info, nil
}

// isServiceURL reports whether u is a forward URL issued by the configured
// endpoint. The check is a plain string prefix match.
func (e *executor) isServiceURL(u string) bool {
	return u != "" && strings.HasPrefix(u, e.endpointURL)
}

func decodeBody(data []byte, v any) bool {
	return json.Unmarshal(data, v) == nil
}

// isFalsyBody reports whether a verify body carries no result: nothing,
// or a JSON null, false, zero or empty string. Any other body, including
// one that is not JSON, is a result.
func isFalsyBody(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	default:
		return false
	}
}

func failed(ctx context.Context, log *logger.Logger, kind ErrorKind, err error) *ErrorResult {
	observability.SetSpanError(ctx, err)
	log.Warn("invalid request", logger.ErrorFields(err))
	return &ErrorResult{Error: kind, Err: err}
}

// callFailed builds the result for a round trip that failed. do has
// already logged it.
func callFailed(ctx context.Context, kind ErrorKind, x *exchange, err error) *ErrorResult {
	cause := failureCause(x.resp, err)
	observability.SetSpanError(ctx, cause)
	return &ErrorResult{Error: kind, Err: cause}
}

func unexpected(ctx context.Context, log *logger.Logger, resp *Response) *ErrorResult {
	err := fmt.Errorf("unexpected response: %d %s", resp.Status, resp.StatusText)
	observability.SetSpanError(ctx, err)
	log.Warn("unexpected response", logger.ErrorFields(err,
		logger.FieldStatus, resp.Status,
		logger.FieldData, string(resp.Data),
	))
	return &ErrorResult{Error: KindUnexpectedResponse, Response: resp}
}
