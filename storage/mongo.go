package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	converter "github.com/malusev998/ledger-converter"
)

// StatusRequiresReconfiguration marks a budget whose currency became obsolete
// after a conversion.
const StatusRequiresReconfiguration = "requires_reconfiguration"

type (
	mongoRecordStorage struct {
		client     *mongo.Client
		collection *mongo.Collection
	}

	mongoBudgetStorage struct {
		collection *mongo.Collection
	}

	mongoAuditStorage struct {
		collection *mongo.Collection
	}

	mongoRecord struct {
		ID                  primitive.ObjectID `bson:"_id,omitempty"`
		UserID              string             `bson:"userId"`
		Amount              float64            `bson:"amount"`
		Currency            string             `bson:"currency"`
		Date                time.Time          `bson:"date"`
		OriginalAmount      *float64           `bson:"originalAmount,omitempty"`
		OriginalCurrency    string             `bson:"originalCurrency,omitempty"`
		ExchangeRate        float64            `bson:"exchangeRate,omitempty"`
		ConversionTimestamp *time.Time         `bson:"conversionTimestamp,omitempty"`
		UpdatedAt           time.Time          `bson:"updatedAt,omitempty"`
	}

	mongoBudget struct {
		ID       primitive.ObjectID `bson:"_id,omitempty"`
		UserID   string             `bson:"userId"`
		Currency string             `bson:"currency"`
		Status   string             `bson:"status"`
	}

	mongoAuditEntry struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		UserID         string             `bson:"userId"`
		FromCurrency   string             `bson:"fromCurrency"`
		ToCurrency     string             `bson:"toCurrency"`
		ExchangeRate   float64            `bson:"exchangeRate"`
		ConvertedCount int                `bson:"convertedCount"`
		Source         string             `bson:"source"`
		Timestamp      time.Time          `bson:"timestamp"`
		CreatedAt      time.Time          `bson:"createdAt"`
	}
)

func NewMongoRecordStorage(client *mongo.Client, collection *mongo.Collection) converter.RecordStorage {
	return mongoRecordStorage{
		client:     client,
		collection: collection,
	}
}

func (m mongoRecordStorage) FindByCurrency(
	ctx context.Context,
	userID, currency string,
	period converter.DateRange,
) ([]converter.FinancialRecord, error) {
	return m.find(ctx, bson.M{
		"userId":   userID,
		"currency": currency,
		"date": bson.M{
			"$gte": period.From,
			"$lte": period.To,
		},
	})
}

func (m mongoRecordStorage) FindByPeriod(
	ctx context.Context,
	userID string,
	period converter.DateRange,
) ([]converter.FinancialRecord, error) {
	return m.find(ctx, bson.M{
		"userId": userID,
		"date": bson.M{
			"$gte": period.From,
			"$lte": period.To,
		},
	})
}

func (m mongoRecordStorage) find(ctx context.Context, filter bson.M) ([]converter.FinancialRecord, error) {
	cursor, err := m.collection.Find(ctx, filter)

	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	records := make([]converter.FinancialRecord, 0)

	for cursor.Next(ctx) {
		var doc mongoRecord

		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		records = append(records, converter.FinancialRecord{
			ID:                  doc.ID.Hex(),
			UserID:              doc.UserID,
			Amount:              doc.Amount,
			Currency:            doc.Currency,
			Date:                doc.Date,
			OriginalAmount:      doc.OriginalAmount,
			OriginalCurrency:    doc.OriginalCurrency,
			ExchangeRate:        doc.ExchangeRate,
			ConversionTimestamp: doc.ConversionTimestamp,
			UpdatedAt:           doc.UpdatedAt,
		})
	}

	return records, cursor.Err()
}

// ApplyUpdates commits every staged update inside a single mongo transaction,
// all of them or none.
func (m mongoRecordStorage) ApplyUpdates(ctx context.Context, updates []converter.RecordUpdate) error {
	session, err := m.client.StartSession()

	if err != nil {
		return err
	}

	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, update := range updates {
			id, err := primitive.ObjectIDFromHex(update.RecordID)

			if err != nil {
				return nil, fmt.Errorf("record %s: %w", update.RecordID, err)
			}

			set := bson.M{
				"amount":              update.Amount,
				"currency":            update.Currency,
				"exchangeRate":        update.ExchangeRate,
				"conversionTimestamp": update.ConversionTimestamp,
				"updatedAt":           update.UpdatedAt,
			}

			if update.OriginalAmount != nil {
				set["originalAmount"] = *update.OriginalAmount
				set["originalCurrency"] = update.OriginalCurrency
			}

			if _, err := m.collection.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})

	return err
}

func NewMongoBudgetStorage(collection *mongo.Collection) converter.BudgetStorage {
	return mongoBudgetStorage{collection: collection}
}

// MarkRequiresReconfiguration flags every budget of the user so the ledger
// asks for a new budget in the new currency. The previous currency is kept
// on the document for the reconfiguration dialog.
func (m mongoBudgetStorage) MarkRequiresReconfiguration(ctx context.Context, userID, newCurrency string) error {
	cursor, err := m.collection.Find(ctx, bson.M{"userId": userID})

	if err != nil {
		return err
	}

	defer cursor.Close(ctx)

	now := time.Now()

	for cursor.Next(ctx) {
		var budget mongoBudget

		if err := cursor.Decode(&budget); err != nil {
			return err
		}

		_, err := m.collection.UpdateOne(ctx, bson.M{"_id": budget.ID}, bson.M{"$set": bson.M{
			"status":           StatusRequiresReconfiguration,
			"previousCurrency": budget.Currency,
			"newCurrency":      newCurrency,
			"conversionNote":   fmt.Sprintf("Budget reset due to currency change to %s", newCurrency),
			"updatedAt":        now,
		}})

		if err != nil {
			return err
		}
	}

	return cursor.Err()
}

func NewMongoAuditStorage(collection *mongo.Collection) converter.AuditStorage {
	return mongoAuditStorage{collection: collection}
}

func (m mongoAuditStorage) Append(ctx context.Context, entry converter.AuditEntry) error {
	createdAt := entry.CreatedAt

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := m.collection.InsertOne(ctx, bson.M{
		"userId":         entry.UserID,
		"fromCurrency":   entry.FromCurrency,
		"toCurrency":     entry.ToCurrency,
		"exchangeRate":   entry.ExchangeRate,
		"convertedCount": entry.ConvertedCount,
		"source":         string(entry.Source),
		"timestamp":      entry.Timestamp,
		"createdAt":      createdAt,
	})

	return err
}

func (m mongoAuditStorage) History(ctx context.Context, userID string, limit int64) ([]converter.AuditEntry, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Sort:  bson.M{"createdAt": -1},
		Limit: &limit,
	})

	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	entries := make([]converter.AuditEntry, 0, limit)

	for cursor.Next(ctx) {
		var doc mongoAuditEntry

		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		entries = append(entries, converter.AuditEntry{
			ID:             doc.ID.Hex(),
			UserID:         doc.UserID,
			FromCurrency:   doc.FromCurrency,
			ToCurrency:     doc.ToCurrency,
			ExchangeRate:   doc.ExchangeRate,
			ConvertedCount: doc.ConvertedCount,
			Source:         converter.Source(doc.Source),
			Timestamp:      doc.Timestamp,
			CreatedAt:      doc.CreatedAt,
		})
	}

	return entries, cursor.Err()
}
