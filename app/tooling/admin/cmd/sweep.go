package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a failure sweep pass right now.",
	Run:   sweepRun,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func sweepRun(cmd *cobra.Command, args []string) {
	resp, err := http.Post(fmt.Sprintf("%s/v1/admin/sweep", privateURL), "application/json", nil)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	fmt.Println("sweep:", resp.Status)
}
