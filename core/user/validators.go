package user

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/schooladmin/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "password is too common"
	commonPasswords = loadCommonPasswords()
)

//go:embed common-passwords.txt
var commonPasswordsTxt string

// InitValidators registers the user validators on v.
func InitValidators(v *core.Validator) {
	v.RegisterStructValidation(
		userStructValidation,
		map[string]string{
			pwdMinLenTag:     pwdMinLenText,
			pwdNoSpaceTag:    pwdNoSpaceText,
			pwdNotAllNumTag:  pwdNotAllNumText,
			pwdComplexityTag: pwdComplexityText,
			pwdAttrSimTag:    pwdAttrSimText,
			pwdNoCommonTag:   pwdNoCommonText,
		},
		NewUser{}, PasswordChange{},
	)
}

// loadCommonPasswords returns the lowercased, sorted list of passwords too common to accept.
func loadCommonPasswords() []string {
	var pwds []string
	scanner := bufio.NewScanner(strings.NewReader(commonPasswordsTxt))
	for scanner.Scan() {
		if pwd := strings.ToLower(strings.TrimSpace(scanner.Text())); pwd != "" {
			pwds = append(pwds, pwd)
		}
	}
	sort.Strings(pwds)
	return pwds
}

// userStructValidation does struct level validation on NewUser and PasswordChange structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validatePassword(usr.Password, usr.Name, usr.Email, sl)
	case PasswordChange:
		validatePassword(usr.Password, usr.Name, usr.Email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
// - no common password
func validatePassword(pwd, name, email string, sl validator.StructLevel) {
	if pwd == "" {
		return // reported by `required`
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount                             int
		hasUpper, hasLower, hasDig, hasSpecial bool
	)

	// - minLen: 8
	runes := []rune(pwd)
	pwdLen := len(runes)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range runes {
		// - no whitespace
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	// - not all numeric
	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	// - complexity: 1 upper, 1 lower, 1 digit & 1 special
	hasDig = digitCount > 0
	hasSpecial = specialRegex.MatchString(pwd)
	if !(hasUpper && hasLower && hasDig && hasSpecial) {
		reportErr(pwdComplexityTag)
		return
	}

	// - no user attrs similarity
	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
	}
	emailUser := email
	if i := strings.Index(email, "@"); i > 0 {
		emailUser = email[:i]
	}
	if getRatio(pwd, name) >= pwdMaxSim ||
		getRatio(pwd, email) >= pwdMaxSim ||
		getRatio(pwd, emailUser) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}

	// - no common passwords
	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) && commonPasswords[idx] == lpwd {
		reportErr(pwdNoCommonTag)
	}
}
