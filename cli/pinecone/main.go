package main

import (
	"os"

	pineconecmder "github.com/pinecone-io/pinecone-client/cmd/pinecone"
)

func main() {
	cmd := pineconecmder.NewPineconeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
