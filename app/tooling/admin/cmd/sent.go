package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var daoID uint64

type sentProposal struct {
	TxHash       string  `json:"tx_hash"`
	Status       string  `json:"status"`
	Nonce        uint64  `json:"nonce"`
	ProposalID   *uint64 `json:"proposal_id,omitempty"`
	Applicant    string  `json:"applicant"`
	Proposer     string  `json:"proposer"`
	ProposalType string  `json:"type"`
}

type sentVote struct {
	TxHash     string `json:"tx_hash"`
	Status     string `json:"status"`
	Nonce      uint64 `json:"nonce"`
	ProposalID uint64 `json:"proposal_id"`
	Vote       bool   `json:"vote"`
	Voter      string `json:"voter"`
}

var sentCmd = &cobra.Command{
	Use:   "sent",
	Short: "List the in-flight records for a dao.",
	Run:   sentRun,
}

func init() {
	rootCmd.AddCommand(sentCmd)
	sentCmd.Flags().Uint64VarP(&daoID, "dao", "d", 0, "Id of the dao to inspect.")
}

func sentRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/dao/%d/proposal/sent/list", url, daoID))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var proposals []sentProposal
	if err := json.NewDecoder(resp.Body).Decode(&proposals); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("proposals in flight: %d\n", len(proposals))
	for _, p := range proposals {
		fmt.Printf("  %s nonce %d type %s applicant %s proposer %s\n", p.TxHash, p.Nonce, p.ProposalType, p.Applicant, p.Proposer)
	}

	resp2, err := http.Get(fmt.Sprintf("%s/v1/dao/%d/vote/sent/list", url, daoID))
	if err != nil {
		log.Fatal(err)
	}
	defer resp2.Body.Close()

	var votes []sentVote
	if err := json.NewDecoder(resp2.Body).Decode(&votes); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("votes in flight: %d\n", len(votes))
	for _, v := range votes {
		fmt.Printf("  %s nonce %d proposal %d vote %v voter %s\n", v.TxHash, v.Nonce, v.ProposalID, v.Vote, v.Voter)
	}
}
