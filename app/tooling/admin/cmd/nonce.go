package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var account string

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Inspect the nonce cursor for an account.",
	Run:   nonceRun,
}

func init() {
	rootCmd.AddCommand(nonceCmd)
	nonceCmd.Flags().StringVarP(&account, "account", "a", "", "Account address to inspect.")
}

func nonceRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/admin/nonce/%s", privateURL, account))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var cursor struct {
		Account string `json:"account"`
		Next    uint64 `json:"next"`
		Seeded  bool   `json:"seeded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cursor); err != nil {
		log.Fatal(err)
	}

	if !cursor.Seeded {
		fmt.Printf("account %s has not allocated yet\n", cursor.Account)
		return
	}
	fmt.Printf("account %s next nonce %d\n", cursor.Account, cursor.Next)
}
