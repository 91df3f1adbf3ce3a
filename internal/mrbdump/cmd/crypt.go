package cmd

import (
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mrbdump/internal/loader"
	"mrbdump/internal/xxtea"
)

const encryptedExt = ".enc"

var decryptCmd = &cobra.Command{
	Use:   "decrypt [file]",
	Short: "Decrypt an XXTEA wrapped image",
	Long: `Decrypt an image with --key (and --signature when the file carries one),
unwrap gzip or zip compression and write the plain RITE image.`,
	Example: `
# Decrypt to stdout
mrbdump decrypt --key KEY --signature SIG app.mrb.enc > app.mrb

# Decrypt next to the input
mrbdump decrypt -w --key KEY app.mrb.enc
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Key == "" {
			return fmt.Errorf("--key is required to decrypt")
		}
		writeFile, _ := cmd.Flags().GetBool("write")

		path, err := runDecrypt(cmd.OutOrStdout(), args[0], loader.Options{Key: cfg.Key, Signature: cfg.Signature}, writeFile)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Output written to: %s\n", path)
		}
		return nil
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [file]",
	Short: "Encrypt an image with XXTEA",
	Long:  `Encrypt a file with --key and prepend --signature when given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Key == "" {
			return fmt.Errorf("--key is required to encrypt")
		}
		writeFile, _ := cmd.Flags().GetBool("write")

		path, err := runEncrypt(cmd.OutOrStdout(), args[0], cfg.Key, cfg.Signature, writeFile)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Output written to: %s\n", path)
		}
		return nil
	},
}

func init() {
	decryptCmd.Flags().BoolP("write", "w", false, "Write output next to the input instead of stdout")
	encryptCmd.Flags().BoolP("write", "w", false, "Write output next to the input instead of stdout")
	rootCmd.AddCommand(decryptCmd, encryptCmd)
}

// runDecrypt decrypts path. With writeFile the result goes to a file whose
// path is returned; otherwise it is written to w.
func runDecrypt(w io.Writer, path string, opts loader.Options, writeFile bool) (string, error) {
	img, err := loader.Load(path, opts)
	if err != nil {
		return "", err
	}
	if !writeFile {
		if _, err := w.Write(img.Data); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		return "", nil
	}

	out := decryptedPath(path)
	if err := os.WriteFile(out, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return out, nil
}

// runEncrypt seals path with key and signature.
func runEncrypt(w io.Writer, path, key, signature string, writeFile bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	sealed, err := xxtea.Seal(data, []byte(key), []byte(signature))
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}
	if !writeFile {
		if _, err := w.Write(sealed); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		return "", nil
	}

	out := path + encryptedExt
	if err := os.WriteFile(out, sealed, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return out, nil
}

// decryptedPath drops a trailing .enc, or inserts -decrypted before the
// extension.
func decryptedPath(path string) string {
	if strings.EqualFold(pathpkg.Ext(path), encryptedExt) {
		return path[:len(path)-len(encryptedExt)]
	}
	dir := pathpkg.Dir(path)
	filename := pathpkg.Base(path)
	ext := pathpkg.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return pathpkg.Join(dir, base+"-decrypted"+ext)
}
