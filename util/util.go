package util

import "math/rand"

// Panics if there is an error, otherwise returns the result
func Try[T any](result T, err error) T {
	CheckErr(err)
	return result
}

// Panics if error is not null
func CheckErr(err error) {
	if err != nil {
		panic(err)
	}
}

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Returns a random alphanumeric string with 'length' bytes
func RandomString(length int) string {
	var s = make([]byte, length)
	for i := 0; i < length; i++ {
		s[i] = alphanumerics[rand.Intn(len(alphanumerics))]
	}
	return string(s)
}
