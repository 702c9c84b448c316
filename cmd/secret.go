package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arineng/foreman-ptable/internal/config"
	"github.com/arineng/foreman-ptable/internal/crypto"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the encrypted Foreman password",
	Long:  `Utilities for generating a master key and encrypting the Foreman password so it can be committed in the desired-state file.`,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new master key",
	Run: func(cmd *cobra.Command, args []string) {
		key, err := crypto.GenerateKey()
		if err != nil {
			pterm.Error.Println("Failed to generate key:", err)
			return
		}
		pterm.Success.Println("Generated Master Key:")
		fmt.Println(key)
		pterm.Info.Printf("Save this key to %s or set the %s environment variable.\n", config.MasterKeyPath(), config.MasterKeyEnv)
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := getMasterKey()
		if key == "" {
			return
		}

		encrypted, err := crypto.Encrypt(args[0], key)
		if err != nil {
			pterm.Error.Println("Encryption failed:", err)
			return
		}

		pterm.Success.Println("Encrypted Value:")
		fmt.Println(encrypted)
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [encrypted_value]",
	Short: "Decrypt a value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := getMasterKey()
		if key == "" {
			return
		}

		plain, err := crypto.Decrypt(args[0], key)
		if err != nil {
			pterm.Error.Println("Decryption failed:", err)
			return
		}

		fmt.Println(plain)
	},
}

func getMasterKey() string {
	config.LoadEnv()
	key := config.MasterKey()
	if key == "" {
		pterm.Error.Printf("No master key found. Run 'fptctl secret keygen' and save the key to %s or %s.\n", config.MasterKeyPath(), config.MasterKeyEnv)
	}
	return key
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(keygenCmd)
	secretCmd.AddCommand(encryptCmd)
	secretCmd.AddCommand(decryptCmd)
}
