package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when the username is unknown,
// so both failure paths spend the same bcrypt time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fixmate-dummy-password"), bcrypt.DefaultCost)

func CheckPassword(hash *string, password string) bool {
	h := dummyHash
	if hash != nil {
		h = []byte(*hash)
	}
	ok := bcrypt.CompareHashAndPassword(h, []byte(password)) == nil
	return ok && hash != nil
}
