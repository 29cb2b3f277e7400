package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	txHash   string
	toStatus string
	isVote   bool
)

// statusCmd forces a record into a terminal status. This is an operator
// override for records the chain can no longer settle on its own.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Force a record into a terminal status.",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&txHash, "hash", "x", "", "Hash of the record to transition.")
	statusCmd.Flags().StringVarP(&toStatus, "status", "s", "FAILED", "Status to transition to.")
	statusCmd.Flags().BoolVarP(&isVote, "vote", "v", false, "Transition a vote record instead of a proposal record.")
}

func statusRun(cmd *cobra.Command, args []string) {
	body, err := json.Marshal(struct {
		Status string `json:"status"`
	}{
		Status: toStatus,
	})
	if err != nil {
		log.Fatal(err)
	}

	kind := "proposal"
	if isVote {
		kind = "vote"
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/admin/%s/%s/status", privateURL, kind, txHash), "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Status)
	fmt.Println(string(out))
}
