package core

import "testing"

func TestConfig_ListenAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hostname = "10.0.0.5"
	cfg.Port = 7171

	addr := cfg.ListenAddress()
	expected := "10.0.0.5:7171"
	if addr != expected {
		t.Errorf("ListenAddress() want = %s, got = %s", expected, addr)
	}
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Engine = "postgres"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "testdb"
	cfg.Database.Username = "testuser"
	cfg.Database.Password = "testpassword"

	url := cfg.DatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode="
	if url != expected {
		t.Errorf("DatabaseURL() want = %s, got = %s", expected, url)
	}
}
