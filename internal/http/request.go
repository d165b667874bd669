package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errBodyTooLarge = errors.New("request body too large")

// readBodyJSON 空 body 时 out 保持零值；超过 maxBytes 返回 errBodyTooLarge
func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(body)) > maxBytes {
		return fmt.Errorf("%w (limit %d bytes)", errBodyTooLarge, maxBytes)
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
