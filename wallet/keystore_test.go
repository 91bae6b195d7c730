package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestKeystoreSaveLoad(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	keyBytes, _ := hex.DecodeString(testPrivateKey)
	path, err := km.Save(testAddress, keyBytes, "correct horse")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if path == "" {
		t.Fatal("Save() returned empty path")
	}

	loaded, err := km.Load(testAddress, "correct horse")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !bytes.Equal(loaded, keyBytes) {
		t.Error("loaded key does not match saved key")
	}
}

func TestKeystoreWrongPassword(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	keyBytes, _ := hex.DecodeString(testPrivateKey)
	if _, err := km.Save(testAddress, keyBytes, "right"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := km.Load(testAddress, "wrong"); err == nil {
		t.Error("Load() with wrong password should fail")
	}
}

func TestKeystoreAddressCaseInsensitive(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	keyBytes, _ := hex.DecodeString(testPrivateKey)
	if _, err := km.Save(testAddress, keyBytes, "pw"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// 大小写不同的同一地址读到同一文件
	if _, err := km.Load("0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266", "pw"); err != nil {
		t.Errorf("Load() with uppercase address failed: %v", err)
	}
}

func TestKeystoreInvalidAddress(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	if _, err := km.Save("not-an-address", []byte{1, 2, 3}, "pw"); err == nil {
		t.Error("Save() with invalid address should fail")
	}
}

func TestKeystoreLoadProvider(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	keyBytes, _ := hex.DecodeString(testPrivateKey)
	if _, err := km.Save(testAddress, keyBytes, "pw"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	p, err := km.LoadProvider(&fakeRPC{}, testAddress, "pw")
	if err != nil {
		t.Fatalf("LoadProvider() failed: %v", err)
	}
	if p.Address().Hex() != testAddress {
		t.Errorf("Address() = %v, want %v", p.Address().Hex(), testAddress)
	}
}

func TestKeystoreLoadMissingFile(t *testing.T) {
	km, err := NewKeystoreManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystoreManager() failed: %v", err)
	}

	if _, err := km.Load(testAddress, "pw"); err == nil {
		t.Error("Load() of missing keystore should fail")
	}
}
