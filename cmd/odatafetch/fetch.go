package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gostratum/odata"
)

// fetch retrieves endpoint and writes its "value" field to out. A payload
// without "value" writes nothing.
func fetch(ctx context.Context, client odata.Client, endpoint string, out io.Writer) error {
	data, err := client.GetData(ctx, endpoint)
	if err != nil {
		return err
	}
	return printValue(out, data)
}

func printValue(out io.Writer, data odata.Object) error {
	v, ok := data.Lookup("value")
	if !ok {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("render value: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
