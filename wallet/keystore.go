package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pikkaio/client-sdk-go/client"
	"github.com/pikkaio/client-sdk-go/utils"
)

// Keystore 加密私钥文件结构
type Keystore struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Address string `json:"address"`
	Crypto  Crypto `json:"crypto"`
}

// Crypto 加密信息
type Crypto struct {
	Cipher       string                 `json:"cipher"`
	CipherText   string                 `json:"ciphertext"`
	CipherParams CipherParams           `json:"cipherparams"`
	KDF          string                 `json:"kdf"`
	KDFParams    map[string]interface{} `json:"kdfparams"`
	MAC          string                 `json:"mac"`
}

// CipherParams 加密参数
type CipherParams struct {
	IV string `json:"iv"`
}

// KeystoreManager 本地私钥的加密存取管理器
//
// 为 LocalProvider 提供密钥落盘能力；文件按地址命名，密码派生密钥
// 做 AES-CTR 加密并附 MAC 校验。
type KeystoreManager struct {
	keystoreDir string
}

// NewKeystoreManager 创建管理器（目录不存在时创建，权限 0700）
func NewKeystoreManager(keystoreDir string) (*KeystoreManager, error) {
	if err := os.MkdirAll(keystoreDir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &KeystoreManager{keystoreDir: keystoreDir}, nil
}

// Save 加密保存私钥，返回落盘路径
func (km *KeystoreManager) Save(address string, privateKey []byte, password string) (string, error) {
	if err := utils.ValidateAddress(address); err != nil {
		return "", err
	}

	salt := make([]byte, 32)
	iv := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	key := deriveKey(password, salt)
	ciphertext, err := cryptAES(key, privateKey, iv)
	if err != nil {
		return "", fmt.Errorf("encrypt private key: %w", err)
	}

	ks := &Keystore{
		Version: 1,
		ID:      generateID(),
		Address: utils.NormalizeAddress(address),
		Crypto: Crypto{
			Cipher:     "aes-256-ctr",
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{
				IV: hex.EncodeToString(iv),
			},
			KDF: "sha256",
			KDFParams: map[string]interface{}{
				"dklen": 32,
				"salt":  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(computeMAC(key, ciphertext)),
		},
	}

	path := km.pathFor(address)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("create keystore file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ks); err != nil {
		return "", fmt.Errorf("encode keystore: %w", err)
	}
	return path, nil
}

// Load 解密读取私钥
func (km *KeystoreManager) Load(address string, password string) ([]byte, error) {
	data, err := os.ReadFile(km.pathFor(address))
	if err != nil {
		return nil, fmt.Errorf("read keystore file: %w", err)
	}

	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}

	saltHex, ok := ks.Crypto.KDFParams["salt"].(string)
	if !ok {
		return nil, fmt.Errorf("keystore missing salt")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.CipherText)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("decode mac: %w", err)
	}

	key := deriveKey(password, salt)
	actualMAC := computeMAC(key, ciphertext)
	if subtle.ConstantTimeCompare(expectedMAC, actualMAC) != 1 {
		return nil, fmt.Errorf("invalid password")
	}

	return cryptAES(key, ciphertext, iv)
}

// LoadProvider 读取私钥并直接构造 LocalProvider
func (km *KeystoreManager) LoadProvider(rpc client.Client, address, password string) (*LocalProvider, error) {
	keyBytes, err := km.Load(address, password)
	if err != nil {
		return nil, err
	}
	return NewLocalProvider(rpc, hex.EncodeToString(keyBytes))
}

func (km *KeystoreManager) pathFor(address string) string {
	name := strings.TrimPrefix(utils.NormalizeAddress(address), "0x")
	return filepath.Join(km.keystoreDir, name+".json")
}

// deriveKey 从密码和盐派生 32 字节密钥
func deriveKey(password string, salt []byte) []byte {
	hash := sha256.Sum256(append([]byte(password), salt...))
	return hash[:]
}

// cryptAES AES-CTR 是对称流：加密与解密是同一个变换
func cryptAES(key, input, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, iv)
	output := make([]byte, len(input))
	stream.XORKeyStream(output, input)
	return output, nil
}

// computeMAC 计算密文校验值
func computeMAC(key, ciphertext []byte) []byte {
	hash := sha256.Sum256(append(key, ciphertext...))
	return hash[:]
}

// generateID 生成 keystore 文件 ID
func generateID() string {
	id := make([]byte, 16)
	rand.Read(id)
	return hex.EncodeToString(id)
}
