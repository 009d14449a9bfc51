package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeConnStr(t *testing.T) {
	conf := Database{
		Host:     "my_host",
		User:     "my_user",
		Password: "my_password",
		Name:     "my_db_name",
		Port:     "5432",
	}

	connStr := MakeConnStr(conf)

	assert.Equal(t, "host=my_host user=my_user password=my_password dbname=my_db_name port=5432", connStr)
}
