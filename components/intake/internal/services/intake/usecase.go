// Package intake holds the Intake stage's business logic: canonicalise an
// inbound pacs.008/pacs.002 document into a DataCache, register pseudonyms,
// archive the raw document, cache the enrichment and publish the resulting
// Payload to Router. Grounded on the Config plane's command.UseCase shape,
// adapted from a CRUD use case into a one-shot ingest pipeline.
package intake

import (
	"context"
	"fmt"
	"sync"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/shopspring/decimal"
)

// ArchiveStore is the narrow raw-document persistence port for one document
// family, implemented by *pacs008.ArchiveRepository and
// *pacs002.ArchiveRepository respectively.
type ArchiveStore[T any] interface {
	Insert(ctx context.Context, id string, doc T) error
}

// HistoryStore is the transaction-relationship read/write port, implemented
// by *history.Repository.
type HistoryStore interface {
	Insert(ctx context.Context, rel mmodel.TransactionRelationship) error
	FindByEndToEndID(ctx context.Context, endToEndID string) (mmodel.TransactionRelationship, bool, error)
}

// DataCacheStore is the enrichment cache port, implemented by
// *redis.DataCacheStore.
type DataCacheStore interface {
	Get(ctx context.Context, endToEndID string) (mmodel.DataCache, bool, error)
	Set(ctx context.Context, endToEndID string, dc mmodel.DataCache) error
}

// PseudonymClient registers canonical identifiers with the external
// pseudonym service, implemented by *pseudonym.Client.
type PseudonymClient interface {
	CreatePseudonym(ctx context.Context, req mmodel.CreatePseudonymRequest) (mmodel.CreatePseudonymResponse, error)
}

// RouterPublisher forwards the enriched Payload downstream, implemented by
// *rabbitmq.RouterPublisher.
type RouterPublisher interface {
	PublishIntake(ctx context.Context, msgID string, v any) error
}

// UseCase is the Intake stage's ingest pipeline for both document families.
type UseCase struct {
	Pacs008Archive ArchiveStore[mmodel.Pacs008Document]
	Pacs002Archive ArchiveStore[mmodel.Pacs002Document]
	History        HistoryStore
	DataCache      DataCacheStore
	Pseudonym      PseudonymClient
	Publisher      RouterPublisher
}

func dataCacheFromPacs008(doc mmodel.Pacs008Document) mmodel.DataCache {
	xchg := decimal.Zero
	if doc.XchgRate != nil {
		xchg = *doc.XchgRate
	}

	return mmodel.DataCache{
		DebtorID:          doc.Debtor.ID,
		DebtorAccountID:   doc.Debtor.AccountID,
		CreditorID:        doc.Creditor.ID,
		CreditorAccountID: doc.Creditor.AccountID,
		CreDtTm:           doc.CreDtTm,
		InstdAmt:          doc.InstdAmt,
		IntrBkSttlmAmt:    doc.IntrBkSttlmAmt,
		XchgRate:          xchg,
	}
}

// amountFromUnitsAndNanos rebuilds a decimal amount from the
// transaction_relationship table's split unit/nanos columns.
func amountFromUnitsAndNanos(units int64, nanos int32) decimal.Decimal {
	return decimal.NewFromInt(units).Add(decimal.New(int64(nanos), -9))
}

func dataCacheFromRelationship(rel mmodel.TransactionRelationship) mmodel.DataCache {
	amount := amountFromUnitsAndNanos(rel.AmtUnit, rel.AmtNanos)

	return mmodel.DataCache{
		DebtorAccountID:   rel.Source,
		CreditorAccountID: rel.Destination,
		CreDtTm:           rel.CreDtTm,
		InstdAmt:          amount,
		IntrBkSttlmAmt:    amount,
	}
}

// HandlePacs008 canonicalises an inbound pacs.008 document and drives it
// through the full ingest pipeline, per spec.md §4.2.
func (uc *UseCase) HandlePacs008(ctx context.Context, doc mmodel.Pacs008Document) (mmodel.Payload, error) {
	logger := libCommons.NewLoggerFromContext(ctx)
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "intake.handle_pacs008")
	defer span.End()

	if doc.MsgID == "" || doc.EndToEndID == "" || doc.Debtor.ID == "" || doc.Debtor.AccountID == "" ||
		doc.Creditor.ID == "" || doc.Creditor.AccountID == "" {
		return mmodel.Payload{}, constant.ValidationError{
			EntityType: "Pacs008Document",
			Code:       constant.ErrMissingRequiredField.Error(),
			Message:    "pacs.008 document is missing a required identifier",
		}
	}

	dataCache := dataCacheFromPacs008(doc)

	relationship := mmodel.TransactionRelationship{
		Source:      doc.Debtor.AccountID,
		Destination: doc.Creditor.AccountID,
		AmtUnit:     doc.InstdAmt.IntPart(),
		AmtCcy:      doc.InstdAmtCcy,
		CreDtTm:     doc.CreDtTm,
		EndToEndID:  doc.EndToEndID,
		MsgID:       doc.MsgID,
		PmtInfID:    doc.PmtInfID,
		TxTp:        mmodel.TxTypePacs008,
	}

	pseudonymReq := mmodel.CreatePseudonymRequest{
		DebtorID:          doc.Debtor.ID,
		DebtorAccountID:   doc.Debtor.AccountID,
		CreditorID:        doc.Creditor.ID,
		CreditorAccountID: doc.Creditor.AccountID,
		Relationship:      relationship,
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	record := func(err error) {
		if err == nil {
			return
		}

		mu.Lock()
		defer mu.Unlock()

		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		record(uc.Pacs008Archive.Insert(ctx, libCommons.GenerateUUIDv7().String(), doc))
	}()

	go func() {
		defer wg.Done()
		record(uc.History.Insert(ctx, relationship))
	}()

	go func() {
		defer wg.Done()

		if _, err := uc.Pseudonym.CreatePseudonym(ctx, pseudonymReq); err != nil {
			logger.Warnf("intake: pseudonym registration failed: %v", err)
			record(err)
		}
	}()

	wg.Wait()

	if firstErr != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to archive pacs008 document", firstErr)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, firstErr)
	}

	if err := uc.DataCache.Set(ctx, doc.EndToEndID, dataCache); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to cache data cache entry", err)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	payload := mmodel.Payload{
		TxTp:        mmodel.TxTypePacs008,
		Transaction: mmodel.Transaction{Pacs008: &doc},
		DataCache:   &dataCache,
	}

	if err := uc.Publisher.PublishIntake(ctx, doc.MsgID, payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish intake payload", err)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	return payload, nil
}

// HandlePacs002 canonicalises an inbound pacs.002 document, reusing the
// originating pacs.008's DataCache, per spec.md §4.2 step 2.
func (uc *UseCase) HandlePacs002(ctx context.Context, doc mmodel.Pacs002Document) (mmodel.Payload, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "intake.handle_pacs002")
	defer span.End()

	status, ok := doc.PrimaryStatus()
	if doc.MsgID == "" || !ok || status.OrgnlEndToEndID == "" {
		return mmodel.Payload{}, constant.ValidationError{
			EntityType: "Pacs002Document",
			Code:       constant.ErrMissingRequiredField.Error(),
			Message:    "pacs.002 document is missing a required identifier",
		}
	}

	dataCache, found, err := uc.DataCache.Get(ctx, status.OrgnlEndToEndID)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to read data cache entry", err)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	if !found {
		rel, relFound, err := uc.History.FindByEndToEndID(ctx, status.OrgnlEndToEndID)
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to read transaction history", err)
			return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
		}

		if !relFound {
			return mmodel.Payload{}, constant.ValidationError{
				EntityType: "Pacs002Document",
				Code:       constant.ErrMissingRequiredField.Error(),
				Message:    "no originating pacs.008 found for end-to-end id " + status.OrgnlEndToEndID,
			}
		}

		dataCache = dataCacheFromRelationship(rel)

		if err := uc.DataCache.Set(ctx, status.OrgnlEndToEndID, dataCache); err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to repopulate data cache entry", err)
		}
	}

	if err := uc.Pacs002Archive.Insert(ctx, libCommons.GenerateUUIDv7().String(), doc); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to archive pacs002 document", err)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	payload := mmodel.Payload{
		TxTp:        mmodel.TxTypePacs002,
		Transaction: mmodel.Transaction{Pacs002: &doc},
		DataCache:   &dataCache,
	}

	if err := uc.Publisher.PublishIntake(ctx, doc.MsgID, payload); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to publish intake payload", err)
		return mmodel.Payload{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	return payload, nil
}
