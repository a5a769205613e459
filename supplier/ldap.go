package supplier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/Parkreiner/namebingo"
)

const (
	// DefaultLDAPFilter matches every person entry below the base DN.
	DefaultLDAPFilter = "(objectClass=person)"
	// DefaultLDAPAttribute is the attribute whose first value becomes a name.
	DefaultLDAPAttribute = "cn"

	defaultLDAPTimeout = 10 * time.Second
)

// LDAP supplies names from a directory. URL points at the organizational unit
// to search, for example ldap://ds.example.com:389/dc=example,dc=com.
type LDAP struct {
	URL string
	// BindDN and Password are used for a simple bind. Both empty means the
	// search runs anonymously.
	BindDN   string
	Password string
	// Filter defaults to DefaultLDAPFilter.
	Filter string
	// Attribute defaults to DefaultLDAPAttribute.
	Attribute string
	// Timeout bounds dialing and the search itself. Defaults to ten seconds.
	Timeout time.Duration
}

var _ bingo.NameSupplier = LDAP{}

// Supply dials the directory, searches the whole subtree below the base DN,
// and returns one name per matching entry. Entries missing the attribute are
// skipped.
func (l LDAP) Supply(ctx context.Context) (bingo.Pool, error) {
	addr, baseDN, err := ParseLDAPURL(l.URL)
	if err != nil {
		return nil, unavailable("ldap", err)
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = defaultLDAPTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, unavailable("ldap", context.DeadlineExceeded)
	}

	conn, err := ldap.DialURL(addr, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return nil, unavailable(fmt.Sprintf("dialing %s", addr), err)
	}
	defer conn.Close()
	conn.SetTimeout(timeout)

	// go-ldap has no context support, so closing the connection is the only
	// way to abort a search in flight
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if l.BindDN != "" || l.Password != "" {
		if err := conn.Bind(l.BindDN, l.Password); err != nil {
			return nil, unavailable(fmt.Sprintf("binding as %q", l.BindDN), err)
		}
	}

	attribute := l.Attribute
	if attribute == "" {
		attribute = DefaultLDAPAttribute
	}
	filter := l.Filter
	if filter == "" {
		filter = DefaultLDAPFilter
	}

	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		int(timeout/time.Second),
		false,
		filter,
		[]string{attribute},
		nil,
	)
	result, err := conn.Search(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return nil, unavailable(fmt.Sprintf("searching %q", baseDN), err)
	}

	pool := make(bingo.Pool, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if name, ok := normalizeName(entry.GetAttributeValue(attribute)); ok {
			pool = append(pool, name)
		}
	}
	return pool, nil
}

// ParseLDAPURL splits an LDAP URL into the server address go-ldap dials and the
// base DN encoded in its path.
func ParseLDAPURL(raw string) (addr string, baseDN string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parsing ldap url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "ldap", "ldaps", "ldapi":
	default:
		return "", "", fmt.Errorf("unsupported ldap url scheme %q", u.Scheme)
	}
	if u.Host == "" && u.Scheme != "ldapi" {
		return "", "", errors.New("ldap url has no host")
	}

	baseDN = strings.TrimPrefix(u.Path, "/")
	if baseDN == "" {
		return "", "", errors.New("ldap url has no base DN")
	}

	server := url.URL{Scheme: u.Scheme, Host: u.Host}
	return server.String(), baseDN, nil
}
