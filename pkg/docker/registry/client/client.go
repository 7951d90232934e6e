package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/pkg/errors"
)

var (
	NoneAuthType   = ""
	BasicAuthType  = "Basic"
	BearerAuthType = "Bearer"

	CatalogScope = "registry:catalog:*"
)

const (
	_defaultPageSize     = 100
	_contentDigestHeader = "Docker-Content-Digest"
)

type Client struct {
	*resty.Client

	username string
	password string
	pageSize int
	auth     struct {
		token   string
		scope   string
		mode    string
		server  string
		service string
	}
}

func New() *Client {
	return &Client{Client: resty.New(), pageSize: _defaultPageSize}
}

func (c *Client) SetUsername(username string) {
	c.username = username
}

func (c *Client) SetPassword(password string) {
	c.password = password
}

func (c *Client) SetPageSize(n int) {
	if n > 0 {
		c.pageSize = n
	}
}

func (c *Client) SetSecureSkip(skip bool) {
	if skip {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
}

// Ping ping registry and get authenticate info
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.R().
		SetContext(ctx).
		Get("/v2/")
	if err != nil {
		return err
	}
	if res.StatusCode() == http.StatusOK {
		c.auth.mode = NoneAuthType
		return nil
	}
	if res.StatusCode() != http.StatusUnauthorized {
		return statusErrno(res.StatusCode(), res.Status())
	}

	authenticate := res.Header().Get("Www-Authenticate")
	mode, params := parseChallenge(authenticate)
	switch {
	case strings.EqualFold(mode, BearerAuthType):
		c.auth.mode = BearerAuthType
		c.auth.server = params["realm"]
		c.auth.service = params["service"]
		if c.auth.server == "" {
			return fmt.Errorf("bearer challenge without realm: %q", authenticate)
		}
	case strings.EqualFold(mode, BasicAuthType), mode == "":
		c.auth.mode = BasicAuthType
	default:
		return fmt.Errorf("unsupported auth type %s", mode)
	}
	return nil
}

// GetAuthToken get token with scope
func (c *Client) GetAuthToken(ctx context.Context, scope string) error {
	switch c.auth.mode {
	case NoneAuthType:
		return nil
	case BasicAuthType:
		if c.username == "" || c.password == "" {
			return fmt.Errorf("bad credential")
		}
		return nil
	case BearerAuthType:
		if c.auth.token != "" && c.auth.scope == scope {
			return nil
		}
		authToken := &AuthToken{}
		request := c.R().SetContext(ctx)
		if c.username != "" && c.password != "" {
			request = request.SetBasicAuth(c.username, c.password)
		}
		res, err := request.
			SetResult(authToken).
			SetQueryParam("service", c.auth.service).
			SetQueryParam("scope", scope).
			Get(c.auth.server)
		if err != nil {
			return err
		}
		if err = statusErrno(res.StatusCode(), res.Status()); err != nil {
			return errors.Wrap(err, "request token")
		}
		token := authToken.Token
		if token == "" {
			token = authToken.AccessToken
		}
		if token == "" {
			return fmt.Errorf("token is null")
		}
		c.auth.token = token
		c.auth.scope = scope
		return nil
	}
	return fmt.Errorf("unsupport auth type %s", c.auth.mode)
}

// Catalog lists every repository of the registry, following the Link
// header until the last page.
func (c *Client) Catalog(ctx context.Context) ([]string, error) {
	var repos []string
	next := fmt.Sprintf("/v2/_catalog?n=%d", c.pageSize)
	for next != "" {
		page := &catalog{}
		link, err := c.getJSON(ctx, CatalogScope, next, page)
		if err != nil {
			return nil, err
		}
		repos = append(repos, page.Repositories...)
		next = link
	}
	return repos, nil
}

// Tags lists every tag of the repository name.
func (c *Client) Tags(ctx context.Context, name string) ([]string, error) {
	var tags []string
	next := fmt.Sprintf("/v2/%s/tags/list?n=%d", name, c.pageSize)
	for next != "" {
		page := &tagList{}
		link, err := c.getJSON(ctx, repositoryScope(name), next, page)
		if err != nil {
			return nil, err
		}
		tags = append(tags, page.Tags...)
		next = link
	}
	return tags, nil
}

// FetchManifest get manifest of image and its content digest
func (c *Client) FetchManifest(ctx context.Context, name, reference string) (*Manifest, string, error) {
	res, err := c.get(ctx, repositoryScope(name), fmt.Sprintf("/v2/%s/manifests/%s", name, reference), strings.Join([]string{
		MediaTypeManifestV2,
		MediaTypeOCIManifest,
		MediaTypeManifestListV2,
		MediaTypeOCIIndex,
	}, ", "))
	if err != nil {
		return nil, "", err
	}
	manifest := &Manifest{}
	if err = json.Unmarshal(res.Body(), manifest); err != nil {
		return nil, "", errors.Wrapf(err, "decode manifest %s:%s", name, reference)
	}

	if d := res.Header().Get(_contentDigestHeader); d != "" {
		h, err := v1.NewHash(d)
		if err != nil {
			return nil, "", errors.Wrapf(err, "manifest %s:%s", name, reference)
		}
		return manifest, h.String(), nil
	}
	h, _, err := v1.SHA256(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, "", err
	}
	return manifest, h.String(), nil
}

func (c *Client) getJSON(ctx context.Context, scope, url string, v interface{}) (string, error) {
	res, err := c.get(ctx, scope, url, "application/json")
	if err != nil {
		return "", err
	}
	if err = json.Unmarshal(res.Body(), v); err != nil {
		return "", errors.Wrapf(err, "decode %s", url)
	}
	return nextLink(res.Header().Get("Link")), nil
}

func (c *Client) get(ctx context.Context, scope, url, accept string) (*resty.Response, error) {
	if err := c.GetAuthToken(ctx, scope); err != nil {
		return nil, err
	}
	request := c.R().
		SetContext(ctx).
		SetHeader("Accept", accept)
	switch c.auth.mode {
	case BasicAuthType:
		request = request.SetBasicAuth(c.username, c.password)
	case BearerAuthType:
		request = request.SetAuthToken(c.auth.token)
	}
	res, err := request.Get(url)
	if err != nil {
		return nil, err
	}
	if err = statusErrno(res.StatusCode(), res.Status()); err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	return res, nil
}

func repositoryScope(name string) string {
	return fmt.Sprintf("repository:%s:pull", name)
}

// nextLink returns the target of a rel="next" Link header, or "".
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end <= start {
			return ""
		}
		return part[start+1 : end]
	}
	return ""
}

// parseChallenge splits a Www-Authenticate header into its scheme and
// key="value" parameters. Commas inside quoted values are kept.
func parseChallenge(header string) (string, map[string]string) {
	params := map[string]string{}
	header = strings.TrimSpace(header)
	if header == "" {
		return "", params
	}
	mode := header
	rest := ""
	if i := strings.Index(header, " "); i > 0 {
		mode, rest = header[:i], header[i+1:]
	}

	var parts []string
	var cur strings.Builder
	quoted := false
	for _, r := range rest {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case r == ',' && !quoted:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())

	for _, p := range parts {
		ks := strings.SplitN(strings.TrimSpace(p), "=", 2)
		if len(ks) == 2 {
			params[strings.ToLower(ks[0])] = strings.Trim(ks[1], "\"")
		}
	}
	return mode, params
}
