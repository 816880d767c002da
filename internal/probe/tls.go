package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/netprobehq/agent/pkg/types"
)

// TLS performs a TLS-wrapped connection attempt and reports handshake state:
// negotiated protocol and cipher, the mutual-authentication heuristic, and
// the leaf certificate's subject, issuer, and validity window.
func (e *Engine) TLS(ctx context.Context, opts TLSOptions) types.Result {
	tool := opts.Tool
	if tool == "" {
		tool = "network.tls"
	}
	timeoutSec := opts.TimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = e.defaults.TLSTimeoutSec
	}

	fail := func(msg string) types.Result {
		return types.Result{
			Tool:  tool,
			Host:  opts.Host,
			Port:  opts.Port,
			Error: msg,
		}
	}

	tlsCfg := &tls.Config{
		InsecureSkipVerify: opts.Insecure,
		ServerName:         opts.ServerName,
	}
	if tlsCfg.ServerName == "" {
		tlsCfg.ServerName = opts.Host
	}

	if opts.CACert != "" {
		caBytes, err := os.ReadFile(opts.CACert)
		if err != nil {
			return fail(fmt.Sprintf("read ca_cert failed: %v", err))
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return fail(fmt.Sprintf("parse ca_cert failed: no certificates in %s", opts.CACert))
		}
		tlsCfg.RootCAs = pool
	}

	if opts.ClientCert != "" && opts.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(opts.ClientCert, opts.ClientKey)
		if err != nil {
			return fail(fmt.Sprintf("load client cert/key failed: %v", err))
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: time.Duration(timeoutSec) * time.Second},
		Config:    tlsCfg,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	latency := time.Since(start)
	if err != nil {
		return fail(fmt.Sprintf("tls dial failed: %v", err))
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return fail("connection is not TLS")
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return fail(fmt.Sprintf("handshake failed: %v", err))
	}

	state := tlsConn.ConnectionState()
	cipherName := ""
	if state.CipherSuite != 0 {
		cipherName = tls.CipherSuiteName(state.CipherSuite)
	}

	// Heuristic only: a verified chain can exist without a client
	// certificate ever being requested, and verification is skipped
	// entirely when the insecure flag is set.
	mutualAuth := state.HandshakeComplete &&
		len(state.PeerCertificates) > 0 &&
		len(state.VerifiedChains) > 0 && len(state.VerifiedChains[0]) > 0

	details := map[string]any{
		"mutual_auth":      mutualAuth,
		"negotiated_proto": state.NegotiatedProtocol,
		"alpn_proto":       state.NegotiatedProtocol,
		"server_name":      state.ServerName,
	}
	if cipherName != "" {
		details["cipher_suite"] = cipherName
	}
	if len(state.PeerCertificates) > 0 {
		leaf := state.PeerCertificates[0]
		details["cert_subject"] = leaf.Subject.String()
		details["cert_issuer"] = leaf.Issuer.String()
		details["cert_not_before"] = leaf.NotBefore
		details["cert_not_after"] = leaf.NotAfter
	}

	return types.Result{
		Success:   true,
		Tool:      tool,
		Host:      opts.Host,
		Port:      opts.Port,
		LatencyMs: float64(latency.Milliseconds()),
		Protocol:  "tls",
		Cipher:    cipherName,
		Details:   details,
	}
}
