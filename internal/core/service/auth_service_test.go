package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ecomrating/store-rating/internal/core/domain"
	"github.com/ecomrating/store-rating/internal/core/ports"
)

func registerInput(name, email string) ports.RegisterInput {
	return ports.RegisterInput{Name: name, Email: email, Password: testPassword, Address: testAddress}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()

	user, err := f.auth.Register(context.Background(), registerInput("Alice Normal User Account", "  Alice@Example.com "))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleNormalUser {
		t.Fatalf("expected NORMAL_USER, got %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == testPassword {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := map[string]ports.RegisterInput{
		"missing fields": {Name: "Alice Normal User Account"},
		"short name":     registerInput("Alice", "alice@example.com"),
		"bad email":      registerInput("Alice Normal User Account", "alice@"),
		"weak password": {
			Name: "Alice Normal User Account", Email: "alice@example.com",
			Password: "password", Address: testAddress,
		},
	}
	for name, in := range cases {
		if _, err := f.auth.Register(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if n, _ := f.users.Count(ctx); n != 0 {
		t.Fatalf("expected no users stored, got %d", n)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, registerInput("Bob Normal User Account", "bob@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := f.auth.Register(ctx, registerInput("Bob Second User Account", "BOB@example.com"))
	if !errors.Is(err, domain.ErrEmailTaken) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, registerInput("Carol Normal User Account", "carol@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := f.auth.Login(ctx, "Carol@example.com", testPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	id, ok := f.tokens.Verify(res.Token)
	if !ok {
		t.Fatalf("issued token does not verify")
	}
	if id.UserID != registered.ID || id.Role != domain.RoleNormalUser {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, registerInput("Dave Normal User Account", "dave@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := f.auth.Login(ctx, "dave@example.com", "Wrong0ne!")
	_, unknownEmail := f.auth.Login(ctx, "ghost@example.com", testPassword)
	for _, err := range []error{wrongPassword, unknownEmail} {
		if !errors.Is(err, domain.ErrInvalidCredentials) || !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.addUser("Erin Store Owner Account", "erin@example.com", domain.RoleStoreOwner)

	user, err := f.auth.Me(ctx, id)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := f.auth.Me(ctx, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous caller, got %v", err)
	}
}

func TestAuthService_UpdateProfile_Password(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.addUser("Frank Normal User Account", "frank@example.com", domain.RoleNormalUser)
	newPassword := "NewPassw0rd!"

	_, err := f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{NewPassword: &newPassword})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error without current password, got %v", err)
	}

	_, err = f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{CurrentPassword: "Wrong0ne!", NewPassword: &newPassword})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for wrong current password, got %v", err)
	}

	if _, err := f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{CurrentPassword: testPassword, NewPassword: &newPassword}); err != nil {
		t.Fatalf("password change failed: %v", err)
	}
	if _, err := f.auth.Login(ctx, "frank@example.com", newPassword); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := f.auth.Login(ctx, "frank@example.com", testPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestAuthService_UpdateProfile_NameAndAddress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.addUser("Grace Normal User Account", "grace@example.com", domain.RoleNormalUser)

	if _, err := f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	short := "Grace"
	if _, err := f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{Name: &short}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short name, got %v", err)
	}

	name, address := "Grace Hopper Normal User", "42 Harbor Lane"
	user, err := f.auth.UpdateProfile(ctx, id, ports.UpdateProfileInput{Name: &name, Address: &address})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Name != name || user.Address != address {
		t.Fatalf("update not applied: %+v", user)
	}
	if user.Role != domain.RoleNormalUser {
		t.Fatalf("role changed by profile update: %s", user.Role)
	}
}
