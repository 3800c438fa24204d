// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const TOTPIssuer = "postdeck"

func GenerateTOTP(email string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: email,
	})
}

func ValidateTOTP(passcode, secret string) bool {
	return totp.Validate(passcode, secret)
}

// GenerateQRCode renders the enrolment QR code as a base64 PNG.
func GenerateQRCode(key *otp.Key) (string, error) {
	var buf bytes.Buffer
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
