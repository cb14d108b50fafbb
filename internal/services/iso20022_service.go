package services

import (
	"encoding/xml"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"

	"github.com/skillverse/backend/internal/models"
)

// ISO20022Service converts completed order settlements into pacs.008
// credit-transfer messages for the downstream settlement audit trail.
// The send side is a stub that logs the document; there is no real
// processor behind the simulated gateway.
type ISO20022Service struct {
	currency string
	bic      string
}

func NewISO20022Service() *ISO20022Service {
	return &ISO20022Service{
		currency: "INR",
		bic:      "SKILVERS",
	}
}

// ConvertSettlement builds a pacs.008 message for a settled order: the
// buyer's debit record is the transfer, the seller the creditor.
func (iso *ISO20022Service) ConvertSettlement(settlementID string, debit *models.Transaction, sellerName string, sellerAmount float64) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	if debit == nil {
		return nil, fmt.Errorf("settlement %s has no debit record", settlementID)
	}

	now := time.Now()
	msgID := uuid.New().String()

	doc := &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(msgID),
			CreDtTm: common.ISODateTime(now),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode(iso.currency),
				Value: sellerAmount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&now),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG",
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &[]common.Max35Text{common.Max35Text(debit.ID)}[0],
					EndToEndId: common.Max35Text(settlementID),
					TxId:       &[]common.Max35Text{common.Max35Text(debit.ID)}[0],
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode(iso.currency),
					Value: sellerAmount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&now),
				ChrgBr:        "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier(iso.bic)}[0],
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(debit.Username)}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier(iso.bic)}[0],
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(sellerName)}[0],
				},
			},
		},
	}

	return doc, nil
}

// SendToSettlement serializes the document and hands it to the settlement
// trail. Currently a logged send.
func (iso *ISO20022Service) SendToSettlement(doc any) error {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}

	log.Printf("[ISO20022] Sending to settlement: %s", string(xmlData))
	return nil
}

// ConvertToXML renders an ISO 20022 document as an XML string.
func (iso *ISO20022Service) ConvertToXML(doc any) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}
