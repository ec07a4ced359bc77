package loginshield

import (
	"context"
	"net/http"

	"github.com/cryptium/loginshield-go/util"
)

// Header names the SDK sets on every request.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"

	mimeJSON = "application/json"
)

// HeaderProvider produces headers for a request to url. It is invoked once
// per request and may block.
type HeaderProvider interface {
	Headers(ctx context.Context, url string) (map[string]string, error)
}

// HeaderFunc adapts a function to a HeaderProvider.
type HeaderFunc func(ctx context.Context, url string) (map[string]string, error)

// Headers implements HeaderProvider.
func (f HeaderFunc) Headers(ctx context.Context, url string) (map[string]string, error) {
	return f(ctx, url)
}

type staticHeaders map[string]string

func (s staticHeaders) Headers(context.Context, string) (map[string]string, error) {
	return s, nil
}

// StaticHeaders returns a provider for a fixed set of headers. The map is
// copied, so later changes by the caller have no effect.
func StaticHeaders(headers map[string]string) HeaderProvider {
	return staticHeaders(util.CloneMap(headers))
}

// TokenAuthorization returns a provider for "Authorization: Token <token>".
func TokenAuthorization(token string) HeaderProvider {
	return staticHeaders{HeaderAuthorization: "Token " + token}
}

// TokenAuthorizationFunc returns a provider that fetches the token on every
// request. An empty token contributes no header.
func TokenAuthorizationFunc(fn func(ctx context.Context) (string, error)) HeaderProvider {
	return HeaderFunc(func(ctx context.Context, _ string) (map[string]string, error) {
		token, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, nil
		}
		return map[string]string{HeaderAuthorization: "Token " + token}, nil
	})
}

// composeHeaders merges authorization, then custom headers, then the fixed
// JSON headers. Later writes win and keys are canonicalized, so the JSON
// headers cannot be overridden.
func composeHeaders(ctx context.Context, url string, auth, custom HeaderProvider) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range []HeaderProvider{auth, custom} {
		if p == nil {
			continue
		}
		h, err := p.Headers(ctx, url)
		if err != nil {
			return nil, err
		}
		for k, v := range h {
			out[http.CanonicalHeaderKey(k)] = v
		}
	}
	out[HeaderContentType] = mimeJSON
	out[HeaderAccept] = mimeJSON
	return out, nil
}
