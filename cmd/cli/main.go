package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "badbank-cli",
		Short: "BadBank CLI tool",
		Long:  `A command line interface for interacting with the BadBank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BadBank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	createCmd := &cobra.Command{
		Use:   "create NAME EMAIL UID",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			createAccount(args[0], args[1], args[2])
		},
	}

	showCmd := &cobra.Command{
		Use:   "show EMAIL",
		Short: "Show an account with its transaction history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showAccount(args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts()
		},
	}

	depositCmd := &cobra.Command{
		Use:   "deposit EMAIL AMOUNT",
		Short: "Deposit an amount into an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			applyChange(args[0], "deposit", args[1])
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw EMAIL AMOUNT",
		Short: "Withdraw an amount from an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			applyChange(args[0], "withdraw", args[1])
		},
	}

	accountCmd.AddCommand(createCmd, showCmd, listCmd, depositCmd, withdrawCmd)
	rootCmd.AddCommand(accountCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createAccount(name, email, uid string) {
	payload, _ := json.Marshal(map[string]string{
		"name":  name,
		"email": email,
		"uid":   uid,
	})

	body, status := post("/api/v1/accounts/", payload)
	if status != http.StatusCreated {
		fmt.Printf("Create FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	printJSON(body)
}

func showAccount(email string) {
	body, status := get("/api/v1/accounts/" + url.PathEscape(email))
	if status != http.StatusOK {
		fmt.Printf("Show FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	printJSON(body)
}

func listAccounts() {
	body, status := get("/api/v1/accounts/")
	if status != http.StatusOK {
		fmt.Printf("List FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	printJSON(body)
}

func applyChange(email, op, amount string) {
	payload, _ := json.Marshal(map[string]string{"amount": amount})

	body, status := post("/api/v1/accounts/"+url.PathEscape(email)+"/"+op, payload)
	if status != http.StatusOK {
		fmt.Printf("%s FAILED (Status: %d)\nResponse: %s\n", op, status, string(body))
		os.Exit(1)
	}

	printJSON(body)
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func post(path string, payload []byte) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func printJSON(body []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(out.String())
}
