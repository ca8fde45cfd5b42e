// Package hashpw implements the hashpw command: it reads a password from the
// terminal and prints a bcrypt hash, optionally wrapped as a seed-file entry
// for provisioning ops accounts.
package hashpw

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/server/auth"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
	"github.com/dmitrijs2005/docdrop/internal/server/provision"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrPasswordMismatch = errors.New("passwords do not match")

func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run parses args, prompts twice for the password and writes the result to w.
// Prompts go to prompts so the hash can be redirected on its own.
func Run(args []string, w, prompts io.Writer) error {
	fs := flag.NewFlagSet("hashpw", flag.ContinueOnError)
	fs.SetOutput(prompts)
	cost := fs.Int("cost", 0, "bcrypt cost (0 means the library default)")
	email := fs.String("email", "", "emit a seed-file entry for this email instead of a bare hash")
	role := fs.String("role", string(models.RoleOps), "role of the seed-file entry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email != "" && !models.Role(*role).Valid() {
		return fmt.Errorf("unknown role %q", *role)
	}

	hasher, err := auth.NewPasswordHasher(*cost)
	if err != nil {
		return err
	}

	pw, err := getPassword(prompts, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword(prompts, "Repeat password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return ErrPasswordMismatch
	}
	if len(pw) == 0 {
		return errors.New("empty password")
	}

	hash, err := hasher.Hash(string(pw))
	if err != nil {
		return err
	}

	if *email == "" {
		_, err = fmt.Fprintln(w, hash)
		return err
	}

	doc := provision.SeedFile{Accounts: []provision.SeedAccount{{
		Email:        *email,
		PasswordHash: hash,
		Role:         *role,
		Verified:     true,
	}}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
