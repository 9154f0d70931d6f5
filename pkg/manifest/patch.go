package manifest

import (
	"encoding/json"
	"fmt"
)

// SSLPassthroughArg is the controller argument enabling TLS passthrough.
const SSLPassthroughArg = "--enable-ssl-passthrough"

// patchOperation is a single RFC 6902 JSON Patch operation.
type patchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// ControllerArgsPatch builds a JSON Patch document appending arg to the
// ingress controller's primary container args. The "-" index appends, so
// existing args are never disturbed.
func ControllerArgsPatch(arg string) ([]byte, error) {
	ops := []patchOperation{
		{
			Op:    "add",
			Path:  "/spec/template/spec/containers/0/args/-",
			Value: arg,
		},
	}

	payload, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshal args patch: %w", err)
	}

	return payload, nil
}
