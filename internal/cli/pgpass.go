package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/jackc/pgpassfile"

	"github.com/vvka-141/tabload/internal/tui"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// pgpassPath returns the platform-appropriate .pgpass file path.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// pgpassHasEntry reports whether the .pgpass file holds a password for cfg.
// pgx reads the same file when no password is given.
func pgpassHasEntry(cfg *tabload.ConnectionConfig) bool {
	path := pgpassPath()
	if path == "" {
		return false
	}
	passfile, err := pgpassfile.ReadPassfile(path)
	if err != nil {
		return false
	}
	return passfile.FindPassword(cfg.Host, strconv.Itoa(cfg.Port), cfg.Database, cfg.Username) != ""
}

// passwordSource describes where the password will come from, for the
// verbose log. It never returns the password itself.
func passwordSource(cfg *tabload.ConnectionConfig) string {
	switch {
	case cfg.AuthMethod != tabload.AuthMethodStandard:
		return fmt.Sprintf("%s token", cfg.AuthMethod)
	case cfg.Password != "":
		return "provided"
	case cfg.Driver == tabload.DriverPostgres && pgpassHasEntry(cfg):
		return "from " + pgpassPath()
	default:
		return "none"
	}
}

// offerSavePgpass asks whether to store the password in .pgpass.
// Does nothing if password is empty, the driver is not PostgreSQL, the
// terminal is non-interactive, or the user declines.
func offerSavePgpass(in io.Reader, out io.Writer, cfg *tabload.ConnectionConfig) {
	if cfg.Password == "" || cfg.Driver != tabload.DriverPostgres {
		return
	}
	if !tui.PromptContinue(in, out, "Save password to .pgpass for future runs?", false) {
		return
	}

	if err := writePgpassEntry(cfg); err != nil {
		fmt.Fprintf(out, "Warning: failed to save .pgpass: %v\n", err)
		fmt.Fprintln(out, "Tip: provide password via $PGPASSWORD or connection string.")
		return
	}
	fmt.Fprintf(out, "Saved to %s\n", pgpassPath())
}

// writePgpassEntry adds or updates a .pgpass entry for the given connection.
func writePgpassEntry(cfg *tabload.ConnectionConfig) error {
	path := pgpassPath()
	if path == "" {
		return fmt.Errorf("cannot determine home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	host := escapePgpass(cfg.Host)
	port := strconv.Itoa(cfg.Port)
	db := escapePgpass(cfg.Database)
	user := escapePgpass(cfg.Username)
	password := escapePgpass(cfg.Password)

	newEntry := fmt.Sprintf("%s:%s:%s:%s:%s", host, port, db, user, password)
	matchPrefix := fmt.Sprintf("%s:%s:%s:%s:", host, port, db, user)

	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing .pgpass: %w", err)
	}

	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, matchPrefix) {
			lines[i] = newEntry
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, newEntry)
	}

	// 0600 is required by libpq on Unix
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)
}

// escapePgpass escapes colons and backslashes in a .pgpass field value.
func escapePgpass(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	return s
}
