package tools

import (
	"fmt"
	"io/ioutil"
	"strings"
)

// LoadPassphrase reads the keystore passphrase from passfile
func LoadPassphrase(passfile string) (string, error) {
	passdata, err := ioutil.ReadFile(passfile)
	if err != nil {
		return "", fmt.Errorf("read password fail %w", err)
	}
	passwd := strings.TrimSpace(string(passdata))
	if passwd == "" {
		return "", fmt.Errorf("empty password in %v", passfile)
	}
	return passwd, nil
}
