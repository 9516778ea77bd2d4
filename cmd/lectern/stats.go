package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics of a running server",
	Run: func(cmd *cobra.Command, args []string) {
		serverURL, _ := cmd.Flags().GetString("server")

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(strings.TrimRight(serverURL, "/") + "/stats")
		if err != nil {
			fmt.Printf("Error reaching server: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			fmt.Printf("Server returned %s\n", resp.Status)
			os.Exit(1)
		}

		var stats struct {
			NumSessions int `json:"num_sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			fmt.Printf("Error decoding response: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Live sessions: %d\n", stats.NumSessions)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("server", "http://localhost:8080", "Base URL of the Lectern server")
}
