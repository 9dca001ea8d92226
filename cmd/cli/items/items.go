package items

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/crucial707/itemvault/cmd/cli/config"
	"github.com/crucial707/itemvault/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Items
// ==========================
func InitItems(rootCmd *cobra.Command) {

	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Manage items",
	}

	itemsCmd.AddCommand(
		listItemsCmd(),
		createItemCmd(),
		updateItemCmd(),
		deleteItemCmd(),
	)

	rootCmd.AddCommand(itemsCmd)
}

// ==========================
// LIST
// ==========================
func listItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest("GET", "/api/items", nil)
			if err != nil {
				return err
			}

			var items []map[string]any
			if err := json.Unmarshal(body, &items); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(items))
			for _, it := range items {
				rows = append(rows, []interface{}{
					it["id"],
					it["name"],
					extraFields(it),
				})
			}
			output.RenderTable([]string{"ID", "NAME", "OTHER FIELDS"}, rows)
			return nil
		},
	}
}

// extraFields renders every field except id and name as k=v pairs, sorted for stable output.
func extraFields(item map[string]any) string {
	keys := make([]string, 0, len(item))
	for k := range item {
		if k == "id" || k == "name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, item[k]))
	}
	return strings.Join(parts, " ")
}

// ==========================
// CREATE
// ==========================
func createItemCmd() *cobra.Command {

	var payload string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item from a JSON object (must include an id)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if payload == "" {
				return fmt.Errorf("--json is required")
			}

			body, err := doRequest("POST", "/api/items", []byte(payload))
			if err != nil {
				return err
			}
			return printJSON(body)
		},
	}

	cmd.Flags().StringVar(&payload, "json", "", "item body as a JSON object")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateItemCmd() *cobra.Command {

	var payload string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Merge a JSON patch into an existing item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if payload == "" {
				return fmt.Errorf("--json is required")
			}

			body, err := doRequest("PUT", "/api/items/"+args[0], []byte(payload))
			if err != nil {
				return err
			}
			return printJSON(body)
		},
	}

	cmd.Flags().StringVar(&payload, "json", "", "fields to merge as a JSON object")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete all items with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doRequest("DELETE", "/api/items/"+args[0], nil); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

// doRequest performs an authenticated request and returns the response body.
func doRequest(method, path string, payload []byte) ([]byte, error) {
	token, err := config.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("please login first")
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, config.APIURL()+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func printJSON(body []byte) error {
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
