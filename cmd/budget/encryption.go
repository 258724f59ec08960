package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"budgetplan/internal/services/storage"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt the data directory with a password",
		RunE:  runEncrypt,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "decrypt",
		Short: "Remove encryption from the data directory",
		RunE:  runDecrypt,
	})
}

func runEncrypt(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	fs, err := storage.New(cfg.DataDirectory)
	if err != nil {
		return err
	}
	if fs.IsEncrypted() {
		return storage.ErrAlreadyEncrypted
	}

	pw := cfg.Password
	if pw == "" {
		if pw, err = readPassword("New password: "); err != nil {
			return err
		}
		confirm, err := readPassword("Repeat password: ")
		if err != nil {
			return err
		}
		if pw != confirm {
			return errors.New("passwords do not match")
		}
	}

	if err := fs.EnableEncryption(pw); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Encrypted %s\n", fs.BaseDir())
	return nil
}

func runDecrypt(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	fs, err := storage.New(cfg.DataDirectory)
	if err != nil {
		return err
	}
	if !fs.IsEncrypted() {
		return storage.ErrNotEncrypted
	}

	pw := cfg.Password
	if pw == "" {
		if pw, err = readPassword("Password: "); err != nil {
			return err
		}
	}
	if err := fs.DisableEncryption(pw); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Decrypted %s\n", fs.BaseDir())
	return nil
}
