// Package krypto turns the application SECRET_KEY into working key material.
//
// The secret is never used directly as a key. DeriveKey expands it with
// HKDF-SHA256 under a purpose label, so the cipher key and the token signing
// key are independent even though they come from the same secret.
//
// # Encryption
//
//	c, err := krypto.NewAESGCMServiceFromSecret(s.SecretKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sealed, err := c.EncryptString("card number")
//	plain, err := c.DecryptString(sealed)
//
// # Tokens
//
//	issuer, err := krypto.NewTokenIssuer(s.SecretKey, "chef-api")
//	token, err := issuer.Issue("user-42", 15*time.Minute)
//	claims, err := issuer.Parse(token)
//
// # Secret Generation
//
// GenerateSecretKey produces a replacement for the compiled-in placeholder:
//
//	secret, err := krypto.GenerateSecretKey(32)
package krypto
