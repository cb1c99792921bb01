package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestGetOrCreateCertificate(t *testing.T) {
	tests := []struct {
		setup func(t *testing.T, dir string)
		name  string
		reuse bool
	}{
		{
			name:  "creates a certificate when none exists",
			setup: func(*testing.T, string) {},
		},
		{
			name: "reuses a valid certificate",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				_, err := NewFileManager(dir).GetOrCreateCertificate()
				require.NoError(t, err)
			},
			reuse: true,
		},
		{
			name: "regenerates unreadable files",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(dir, 0o700))
				require.NoError(t, os.WriteFile(filepath.Join(dir, certName), []byte("not a cert"), 0o600))
				require.NoError(t, os.WriteFile(filepath.Join(dir, keyName), []byte("not a key"), 0o600))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "certs")
			tt.setup(t, dir)

			var before []byte
			if tt.reuse {
				var err error
				before, err = os.ReadFile(filepath.Join(dir, certName))
				require.NoError(t, err)
			}

			cert, err := NewFileManager(dir).GetOrCreateCertificate()
			require.NoError(t, err)

			parsed := leaf(t, cert)
			assert.Equal(t, "Transitoria", parsed.Subject.Organization[0])
			assert.NoError(t, parsed.VerifyHostname("localhost"))
			assert.NoError(t, parsed.VerifyHostname("127.0.0.1"))

			if tt.reuse {
				after, err := os.ReadFile(filepath.Join(dir, certName))
				require.NoError(t, err)
				assert.Equal(t, before, after)
			}

			info, err := os.Stat(filepath.Join(dir, keyName))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}
}

func TestExpiringCertificateIsRenewed(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	later := NewFileManager(dir)
	later.now = func() time.Time { return time.Now().Add(validFor - 24*time.Hour) }
	second, err := later.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestCertificateExists(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)

	exists, err := m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filepath.Join(dir, certName), []byte("x"), 0o600))
	exists, err = m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filepath.Join(dir, keyName), []byte("x"), 0o600))
	exists, err = m.CertificateExists()
	require.NoError(t, err)
	assert.True(t, exists)
}
