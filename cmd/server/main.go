package main

import "github.com/Siddharth20050904/inventory-management/internal/cmd"

func main() {
	cmd.Execute()
}
