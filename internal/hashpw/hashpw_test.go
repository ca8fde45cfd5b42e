package hashpw

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/provision"
	"golang.org/x/crypto/bcrypt"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("no more input")
		}
		i++
		return []byte(answers[i-1]), nil
	}
}

func TestRun_PrintsHash(t *testing.T) {
	stubPasswords(t, "s3cret-pass", "s3cret-pass")

	var out, prompts bytes.Buffer
	if err := Run([]string{"-cost", "4"}, &out, &prompts); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
	if !strings.Contains(prompts.String(), "Enter password") {
		t.Fatalf("prompt missing: %q", prompts.String())
	}
}

func TestRun_SeedEntryRoundTrips(t *testing.T) {
	stubPasswords(t, "s3cret-pass", "s3cret-pass")

	var out, prompts bytes.Buffer
	if err := Run([]string{"-cost", "4", "-email", "ops@example.com"}, &out, &prompts); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	hasher, err := auth.NewPasswordHasher(4)
	if err != nil {
		t.Fatal(err)
	}
	accounts, err := provision.Parse(out.Bytes(), hasher, time.Now())
	if err != nil {
		t.Fatalf("generated seed does not parse: %v\n%s", err, out.String())
	}
	if len(accounts) != 1 || accounts[0].Role != models.RoleOps || !accounts[0].Verified {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if !hasher.Verify(accounts[0].PasswordHash, "s3cret-pass") {
		t.Fatal("seeded hash does not verify")
	}
}

func TestRun_Mismatch(t *testing.T) {
	stubPasswords(t, "one", "two")

	var out, prompts bytes.Buffer
	err := Run(nil, &out, &prompts)
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed, got %q", out.String())
	}
}

func TestRun_Empty(t *testing.T) {
	stubPasswords(t, "", "")

	var out, prompts bytes.Buffer
	if err := Run(nil, &out, &prompts); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestRun_BadRole(t *testing.T) {
	var out, prompts bytes.Buffer
	if err := Run([]string{"-email", "a@x.com", "-role", "root"}, &out, &prompts); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRun_ReadError(t *testing.T) {
	stubPasswords(t)

	var out, prompts bytes.Buffer
	if err := Run(nil, &out, &prompts); err == nil {
		t.Fatal("expected read error")
	}
}
