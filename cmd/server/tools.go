package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/wordlist"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/store"
)

var errNilUser = errors.New("user ID cannot be the nil UUID")

// seedVocabulary loads <dir>/<language>_words.txt into vocab and reports how
// many terms were new.
func seedVocabulary(ctx context.Context, vocab store.VocabularyStore, dir, language string) (int, error) {
	terms, err := wordlist.Load(dir, language)
	if err != nil {
		return 0, fmt.Errorf("failed to load word list: %w", err)
	}
	if len(terms) == 0 {
		return 0, nil
	}

	added, err := vocab.AddTerms(ctx, language, terms)
	if err != nil {
		return 0, fmt.Errorf("failed to store vocabulary: %w", err)
	}
	return added, nil
}

// issueToken writes a signed access token for userID to w.
func issueToken(ctx context.Context, w io.Writer, jwtService auth.JWTService, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errNilUser
	}

	token, err := jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
