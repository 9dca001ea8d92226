package main

import (
	"fmt"
	"os"

	"github.com/crucial707/itemvault/cmd/cli/auth"
	"github.com/crucial707/itemvault/cmd/cli/items"
	"github.com/crucial707/itemvault/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	items.InitItems(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
