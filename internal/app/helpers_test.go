package service_test

import (
	"encoding/json"

	"github.com/okian/shadowsettle/internal/domain/model"
)

func jsonDataset(ds model.Dataset) ([]byte, error) {
	return json.Marshal(ds)
}
