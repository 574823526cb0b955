package homeassistant

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"

	"hass-skill/internal/domain"
)

// classify maps a transport error onto the skill's error kinds.
func classify(target string, err error) *domain.Error {
	kind := domain.ErrConnectionFailure

	var (
		netErr      net.Error
		dnsErr      *net.DNSError
		unknownCA   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidCert x509.CertificateInvalidError
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		urlErr      *url.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.ErrTimeout
	case errors.As(err, &unknownCA), errors.As(err, &hostnameErr),
		errors.As(err, &invalidCert), errors.As(err, &verifyErr),
		errors.As(err, &recordErr):
		kind = domain.ErrTLSFailure
	case errors.As(err, &dnsErr):
		kind = domain.ErrInvalidURL
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.ErrTimeout
	case errors.As(err, &urlErr) && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"):
		kind = domain.ErrInvalidURL
	}

	return &domain.Error{Kind: kind, URL: target, Err: err}
}
