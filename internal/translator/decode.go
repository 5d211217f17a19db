package translator

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// Decoder unmarshals provider response bodies. Unknown fields are ignored.
// With Repair set, a body that fails to parse is passed through jsonrepair
// and decoded once more.
type Decoder struct {
	Repair bool
}

// Decode parses data into target.
func (d Decoder) Decode(data []byte, target any) error {
	err := json.Unmarshal(data, target)
	if err == nil {
		return nil
	}
	if !d.Repair {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("%w: %v (repair failed: %v)", ErrDecode, err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("%w: repaired body: %v", ErrDecode, err)
	}
	return nil
}
